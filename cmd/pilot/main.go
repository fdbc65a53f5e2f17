// Package main provides the Pilot browser automation application.
// Pilot drives a real Chromium instance from natural-language commands:
// elements are described ("the blue submit button"), resolved against the
// live page, and acted on through a registry of browser tools.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/entrhq/pilot/pkg/agent/tools"
	"github.com/entrhq/pilot/pkg/config"
	"github.com/entrhq/pilot/pkg/llm"
	"github.com/entrhq/pilot/pkg/llm/openai"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/tools/browser"
)

const version = "0.1.0" // Version of the Pilot browser agent

// Config holds the application configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	ConfigPath  string
	Headless    bool
	ShowVersion bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("Pilot v%s\n", version)
		return
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, cliConfig); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	cliConfig := &Config{}

	flag.StringVar(&cliConfig.APIKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&cliConfig.BaseURL, "base-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flag.StringVar(&cliConfig.Model, "model", "", "LLM model to use (overrides config file)")
	flag.StringVar(&cliConfig.ConfigPath, "config", "", "Path to config file (default: ~/.pilot/config.yaml)")
	flag.BoolVar(&cliConfig.Headless, "headless", false, "Run the browser headless")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Pilot - a natural-language browser agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pilot [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key (optional; without it element\n")
		fmt.Fprintf(os.Stderr, "                     matching falls back to text heuristics)\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pilot                                    # Interactive session\n")
		fmt.Fprintf(os.Stderr, "  pilot -headless -model gpt-4o\n")
		fmt.Fprintf(os.Stderr, "  pilot -base-url https://api.openrouter.ai/api/v1\n")
	}

	flag.Parse()
	return cliConfig
}

// run wires the browser manager, resolver, scroll engine, and tool registry,
// then hands control to the interactive loop.
func run(ctx context.Context, cliConfig *Config) error {
	settings, err := loadSettings(cliConfig)
	if err != nil {
		return err
	}

	logger, logErr := logging.NewLogger("main")
	if logErr == nil {
		defer logger.Close()
		fmt.Printf("Session log: %s\n", logger.LogPath())
	}

	provider := buildProvider(cliConfig, settings)
	if provider == nil {
		fmt.Println("No API key configured; element matching uses text heuristics only.")
	}

	store, err := browser.NewFileSelectorStore(settings.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open selector cache: %w", err)
	}

	manager, err := browser.NewManager(settings)
	if err != nil {
		return fmt.Errorf("failed to create browser manager: %w", err)
	}
	if err := manager.Initialize(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer manager.Shutdown()

	var matcher browser.Matcher
	var strategist browser.Strategist
	if provider != nil {
		matcher = browser.NewLLMMatcher(provider)
		strategist = browser.NewLLMStrategist(provider)
	}

	resolver := browser.NewResolver(store, matcher)
	engine := browser.NewScrollEngine(strategist, resolver, settings.ScrollTierTimeout)

	registry := tools.NewRegistry()
	if err := browser.RegisterAll(registry, manager, resolver, engine); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	fmt.Printf("Pilot v%s - Browser Agent\n", version)
	fmt.Printf("Model: %s\n", settings.LLM.Model)
	fmt.Println("Type 'help' for commands.")
	fmt.Println()

	return runLoop(ctx, registry, manager)
}

// loadSettings merges the config file with command line overrides.
func loadSettings(cliConfig *Config) (*config.Settings, error) {
	path := cliConfig.ConfigPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cliConfig.Model != "" {
		settings.LLM.Model = cliConfig.Model
	}
	if cliConfig.BaseURL != "" {
		settings.LLM.BaseURL = cliConfig.BaseURL
	}
	if cliConfig.Headless {
		settings.Browser.Headless = true
	}
	return settings, nil
}

// buildProvider creates the LLM provider, or returns nil when no API key is
// available. The session still works without one: resolution degrades to the
// deterministic text fallback and scrolling starts at the element tier.
func buildProvider(cliConfig *Config, settings *config.Settings) llm.Provider {
	if cliConfig.APIKey == "" {
		return nil
	}

	opts := []openai.ProviderOption{
		openai.WithModel(settings.LLM.Model),
		openai.WithTemperature(settings.LLM.Temperature),
	}
	if settings.LLM.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(settings.LLM.BaseURL))
	}

	provider, err := openai.NewProvider(cliConfig.APIKey, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: provider setup failed, continuing without LLM: %v\n", err)
		return nil
	}
	return provider
}

// runLoop reads commands from stdin and dispatches them as tool calls.
// Raw <tool> XML blocks are accepted alongside the shorthand commands.
func runLoop(ctx context.Context, registry *tools.Registry, manager *browser.Manager) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var xmlBuffer strings.Builder

	fmt.Print("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()

		// Accumulate multi-line tool XML until the block closes.
		if xmlBuffer.Len() > 0 || strings.Contains(line, "<tool>") {
			xmlBuffer.WriteString(line)
			xmlBuffer.WriteString("\n")
			if !tools.HasToolCall(xmlBuffer.String()) {
				continue
			}
			call, _, err := tools.ParseToolCall(xmlBuffer.String())
			xmlBuffer.Reset()
			if err != nil {
				fmt.Printf("Invalid tool call: %v\n", err)
			} else {
				dispatch(ctx, registry, call)
			}
			fmt.Print("> ")
			continue
		}

		command := strings.TrimSpace(line)
		if command == "" {
			fmt.Print("> ")
			continue
		}
		if command == "quit" || command == "exit" {
			return nil
		}

		if err := runCommand(ctx, registry, manager, command); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

// runCommand translates a shorthand command into a tool call.
func runCommand(ctx context.Context, registry *tools.Registry, manager *browser.Manager, command string) error {
	verb, rest, _ := strings.Cut(command, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "help":
		printHelp(registry)
		return nil

	case "open":
		return invoke(ctx, registry, "open_tab", map[string]string{"url": rest})

	case "goto":
		return invoke(ctx, registry, "navigate", map[string]string{"url": rest})

	case "tabs":
		return invoke(ctx, registry, "list_tabs", nil)

	case "switch":
		return invoke(ctx, registry, "switch_tab", map[string]string{"name": rest})

	case "close":
		return invoke(ctx, registry, "close_tab", map[string]string{"name": rest})

	case "find":
		return invoke(ctx, registry, "find_element", map[string]string{"description": rest})

	case "click":
		return invoke(ctx, registry, "click_element", map[string]string{"description": rest})

	case "type":
		// type <description> :: <text>
		description, text, found := strings.Cut(rest, "::")
		if !found {
			return fmt.Errorf("usage: type <element description> :: <text>")
		}
		return invoke(ctx, registry, "type_text", map[string]string{
			"description": strings.TrimSpace(description),
			"text":        strings.TrimSpace(text),
		})

	case "select":
		// select <description> :: <option label>
		description, option, found := strings.Cut(rest, "::")
		if !found {
			return fmt.Errorf("usage: select <dropdown description> :: <option label>")
		}
		return invoke(ctx, registry, "select_option", map[string]string{
			"description": strings.TrimSpace(description),
			"option":      strings.TrimSpace(option),
		})

	case "check":
		return invoke(ctx, registry, "check_checkbox", map[string]string{"description": rest})

	case "uncheck":
		return invoke(ctx, registry, "check_checkbox", map[string]string{
			"description": rest,
			"checked":     "false",
		})

	case "wait":
		return invoke(ctx, registry, "wait_for_element", map[string]string{"description": rest})

	case "text":
		return invoke(ctx, registry, "get_text", nil)

	case "scroll":
		return invoke(ctx, registry, "scroll", map[string]string{"description": rest})

	case "login":
		// Confirmation comes from the terminal, so consume it here before
		// blocking in the tool.
		fmt.Println("Complete the login in the browser window, then press Enter.")
		fmt.Scanln()
		manager.ConfirmLogin()
		return invoke(ctx, registry, "wait_for_login", nil)

	default:
		return fmt.Errorf("unknown command %q (try 'help')", verb)
	}
}

// invoke builds an XML arguments block and dispatches the named tool.
func invoke(ctx context.Context, registry *tools.Registry, toolName string, args map[string]string) error {
	var inner bytes.Buffer
	for key, value := range args {
		inner.WriteString("<" + key + ">")
		if err := xml.EscapeText(&inner, []byte(value)); err != nil {
			return err
		}
		inner.WriteString("</" + key + ">")
	}

	call := &tools.ToolCall{
		ToolName:  toolName,
		Arguments: tools.ArgumentsBlock{InnerXML: inner.Bytes()},
	}
	return dispatch(ctx, registry, call)
}

// dispatch executes a tool call and prints the outcome.
func dispatch(ctx context.Context, registry *tools.Registry, call *tools.ToolCall) error {
	result, _, err := registry.Execute(ctx, call)
	if err != nil {
		fmt.Printf("%s failed: %v\n", call.ToolName, err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func printHelp(registry *tools.Registry) {
	fmt.Println("Commands:")
	fmt.Println("  open <url>                        open a new tab")
	fmt.Println("  goto <url>                        navigate the active tab")
	fmt.Println("  tabs                              list open tabs")
	fmt.Println("  switch <name>                     activate a tab by name")
	fmt.Println("  close <name>                      close a tab by name")
	fmt.Println("  find <description>                resolve an element description")
	fmt.Println("  click <description>               click the described element")
	fmt.Println("  type <description> :: <text>      type into the described element")
	fmt.Println("  select <description> :: <label>   pick a dropdown option by label")
	fmt.Println("  check <description>               check the described checkbox")
	fmt.Println("  uncheck <description>             uncheck the described checkbox")
	fmt.Println("  wait <description>                wait for the element to appear")
	fmt.Println("  text                              dump the page's visible text")
	fmt.Println("  scroll <description>              scroll the described target")
	fmt.Println("  login                             pause for a manual login")
	fmt.Println("  quit                              exit")
	fmt.Println()
	fmt.Println("Raw <tool> XML blocks are also accepted. Registered tools:")
	for _, tool := range registry.List() {
		fmt.Printf("  %-16s %s\n", tool.Name(), tool.Description())
	}
}
