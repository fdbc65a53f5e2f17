// Package browser implements natural-language browser automation on top of
// Playwright.
//
// The package turns fuzzy, human descriptions ("the login button", "the
// reply input box") into live element locators through a tiered resolution
// pipeline:
//
//  1. Selector cache fast path: a previously resolved locator is reused if
//     it still matches exactly one visible element.
//  2. Scan + semantic match: the page is inventoried for visible interactive
//     elements and an LLM-backed matcher selects the best candidate.
//  3. Deterministic text fallback: candidates are scored by text, aria-label,
//     and placeholder overlap, ties broken by document order.
//
// Scrolling follows the same escalation discipline: an LLM-proposed script,
// then a direct element scroll through the resolver, then a window scroll,
// each verified by a scroll-progress signal before giving up.
//
// Tabs are managed by a registry of named handles over one browser context.
// Exactly one tab is active at a time; the scanner, resolver, and scroll
// engine all operate against the active tab.
//
// Every operation is exposed as a tool (open_tab, navigate, find_element,
// click_element, type_text, scroll, ...) registered through RegisterAll.
package browser
