package browser

// elementScanScript is evaluated in the page to inventory visible
// interactive elements. It walks the full document in order, filters by
// interactivity and visibility, extracts display text, and injects a unique
// data-pilot-el marker into each selected element. Markers from a previous
// scan are cleared first so attribute values stay unique within the page.
//
// Returns an array of records matching the InteractiveElement JSON shape.
const elementScanScript = `(params) => {
	const start = params.start || 0;
	const nonce = params.nonce;
	const ATTR = 'data-pilot-el';

	const interactiveTags = new Set([
		'a', 'button', 'input', 'select', 'textarea',
		'label', 'details', 'summary', 'dialog',
	]);
	const interactiveRoles = new Set([
		'button', 'link', 'menuitem', 'menuitemcheckbox', 'menuitemradio',
		'option', 'radio', 'switch', 'tab', 'checkbox', 'textbox',
		'searchbox', 'combobox', 'listbox', 'slider', 'spinbutton',
	]);
	const hiddenClassMarkers = ['sr-only', 'visually-hidden', 'screen-reader'];

	// Elements further than this from the viewport on every side are skipped;
	// near-viewport elements stay reachable for scroll-then-click flows.
	const margin = 100;
	const vw = window.innerWidth;
	const vh = window.innerHeight;

	document.querySelectorAll('[' + ATTR + ']').forEach((el) => {
		el.removeAttribute(ATTR);
	});

	const collapse = (s) => (s || '').replace(/\s+/g, ' ').trim();

	const resolvePlaceholder = (el) => {
		const direct = el.getAttribute('placeholder');
		if (direct) return collapse(direct);
		const aria = el.getAttribute('aria-placeholder');
		if (aria) return collapse(aria);
		// Some editors keep the placeholder in a separate node referenced
		// by aria-describedby rather than in an attribute.
		const ref = el.getAttribute('aria-describedby');
		if (ref) {
			for (const id of ref.split(/\s+/)) {
				const node = document.getElementById(id);
				if (node) {
					const text = collapse(node.textContent);
					if (text) return text;
				}
			}
		}
		return '';
	};

	const isVisible = (el, style, rect) => {
		if (style.display === 'none') return false;
		if (style.visibility === 'hidden') return false;
		if (parseFloat(style.opacity) === 0) return false;
		if (rect.width < 2 || rect.height < 2) return false;
		const cls = typeof el.className === 'string' ? el.className.toLowerCase() : '';
		if (hiddenClassMarkers.some((m) => cls.includes(m))) return false;
		if (rect.right < -margin || rect.bottom < -margin ||
			rect.left > vw + margin || rect.top > vh + margin) return false;
		return true;
	};

	const isInteractive = (el, style, tag, role) => {
		if (interactiveTags.has(tag)) return true;
		if (role && interactiveRoles.has(role)) return true;
		if (el.isContentEditable) return true;
		if (style.cursor === 'pointer') return true;
		if (el.hasAttribute('tabindex') && el.tabIndex >= 0) return true;
		if (el.onclick || el.hasAttribute('onclick')) return true;
		return false;
	};

	const extractText = (el, tag, role) => {
		if (tag === 'input' || tag === 'textarea') {
			// Never the rendered text: value, else placeholder, else empty.
			return collapse(el.value) || collapse(el.getAttribute('placeholder'));
		}
		if (el.isContentEditable || role === 'textbox' || role === 'searchbox' || role === 'combobox') {
			const ph = resolvePlaceholder(el);
			if (ph) return ph;
		}
		return collapse(el.innerText || el.textContent).slice(0, 80);
	};

	const records = [];
	let index = start;

	for (const el of document.querySelectorAll('*')) {
		const tag = el.tagName.toLowerCase();
		if (tag === 'input' && (el.getAttribute('type') || '').toLowerCase() === 'hidden') continue;

		const style = window.getComputedStyle(el);
		const rect = el.getBoundingClientRect();
		if (!isVisible(el, style, rect)) continue;

		const role = (el.getAttribute('role') || '').toLowerCase();
		if (!isInteractive(el, style, tag, role)) continue;

		const text = extractText(el, tag, role);
		const ariaLabel = collapse(el.getAttribute('aria-label'));
		const placeholder = resolvePlaceholder(el);

		// An input with a type but no text is still meaningful; anything
		// else with no text, label, or placeholder is noise.
		if (!text && !ariaLabel && !placeholder && tag !== 'input') continue;

		// Tiny elements with no text and no label are decorative icons.
		// Labeled ones (checkboxes, radio buttons) stay.
		if (rect.width < 20 && rect.height < 20 && !text && !ariaLabel) continue;

		const marker = nonce + '-' + index;
		el.setAttribute(ATTR, marker);

		records.push({
			index: index,
			tag: tag,
			text: text,
			role: role,
			aria_label: ariaLabel,
			placeholder: placeholder,
			input_type: tag === 'input' ? (el.getAttribute('type') || 'text').toLowerCase() : '',
			href: tag === 'a' ? (el.getAttribute('href') || '').slice(0, 100) : '',
			x: rect.x,
			y: rect.y,
			width: rect.width,
			height: rect.height,
			locator: '[' + ATTR + '="' + marker + '"]',
		});
		index += 1;
	}

	return records;
}`

// scrollOffsetScript computes a scroll-progress signal: the window offset
// plus the offsets of every oversized container. Any scroll that moves
// anything changes this number.
const scrollOffsetScript = `() => {
	let total = window.pageYOffset + window.pageXOffset;
	for (const el of document.querySelectorAll('div, main, section, ul, ol, aside')) {
		if (el.scrollHeight > el.clientHeight + 10) {
			total += el.scrollTop;
		}
	}
	return total;
}`

// scrollableProbeScript lists scrollable container candidates for the
// scroll strategist.
const scrollableProbeScript = `() => {
	const out = [];
	for (const el of document.querySelectorAll('div, main, section, ul, ol, aside')) {
		const style = window.getComputedStyle(el);
		if (el.scrollHeight <= el.clientHeight + 10) continue;
		if (style.overflowY !== 'auto' && style.overflowY !== 'scroll') continue;

		let selector = el.tagName.toLowerCase();
		if (el.id) {
			selector = '#' + el.id;
		} else if (typeof el.className === 'string' && el.className.trim()) {
			selector += '.' + el.className.trim().split(/\s+/).slice(0, 2).join('.');
		}
		out.push({
			selector: selector,
			tag: el.tagName.toLowerCase(),
			scroll_height: el.scrollHeight,
			client_height: el.clientHeight,
		});
		if (out.length >= 20) break;
	}
	return out;
}`
