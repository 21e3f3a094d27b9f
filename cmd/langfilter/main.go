// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the language filter server, CLI [DBG] and picker.

langfilter matches what a user types against a set of languages, by display
name, autonym, ISO 639 code or ISO 15924 script code, and completes the typed
text with the best match. It can operate as a MessagePack IPC server for
integration with editors and input methods, as a line CLI for testing, or as
an interactive terminal picker.

# Usage

Start the server with default settings:

	langfilter

Run the picker, naming languages in German:

	langfilter -tui -ui de

Run in CLI mode with debug output:

	langfilter -c -d

Without a languages file the candidates are a built-in list of common
languages named in the UI language.

# Configuration

Runtime configuration lives in a TOML file, created with defaults when
missing:

	[filter]
	debounce_ms = 300
	languages_file = "languages.txt"
	ui_language = "en"
	overrides_file = ""

	[search]
	url = "https://example.org/w/api.php?action=languagesearch&format=json"
	timeout_ms = 5000

	[server]
	max_query = 60
	watch = true

	[cli]
	default_limit = 24

Relative file paths are resolved against the config file's directory. With
a search url, remote results are preferred and local matching is the
fallback. With watch enabled the server reloads the languages file when it
changes.

# IPC Protocol

See package server. In short:

	{"id": "req1", "q": "fr"}
	{"id": "req1", "r": [{"c": "fr", "n": "French"}], "sel": "fr", "s": "french", "c": 1, "t": 38}

# Command Line Flags

	-config string
	    Path to a config file
	-languages string
	    Languages file (.json, .txt or .toml), overrides the config
	-ui string
	    UI language for display names, overrides the config
	-search string
	    languagesearch endpoint, overrides the config
	-d  Enable debug mode with detailed logging
	-c  Run CLI mode instead of server mode
	-tui
	    Run the interactive picker
	-limit int
	    Rows to print in CLI mode
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/bastiangx/langfilter/internal/cli"
	"github.com/bastiangx/langfilter/internal/tui"
	"github.com/bastiangx/langfilter/pkg/config"
	"github.com/bastiangx/langfilter/pkg/langdata"
	"github.com/bastiangx/langfilter/pkg/languagefilter"
	"github.com/bastiangx/langfilter/pkg/languages"
	"github.com/bastiangx/langfilter/pkg/searchapi"
	"github.com/bastiangx/langfilter/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "langfilter"
	gh      = "https://github.com/bastiangx/langfilter"
)

// sigHandler cancels ctx on SIGINT or SIGTERM.
func sigHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// main wires the packages together and only manages the flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to custom config.toml file")
	langFile := flag.String("languages", "", "Languages file (.json, .txt, .toml)")
	uiLang := flag.String("ui", "", "UI language used to name languages")
	searchURL := flag.String("search", "", "languagesearch endpoint URL")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	tuiMode := flag.Bool("tui", false, "Run the interactive language picker")
	limit := flag.Int("limit", 0, "Rows to print in CLI mode (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ResolvePaths(configPath)
	if *langFile != "" {
		cfg.Filter.LanguagesFile = *langFile
	}
	if *uiLang != "" {
		cfg.Filter.UILanguage = *uiLang
	}
	if *searchURL != "" {
		cfg.Search.URL = *searchURL
	}
	if *limit <= 0 {
		*limit = cfg.CLI.DefaultLimit
	}
	log.Debugf("Using config file: (%s)", configPath)

	registry := langdata.NewRegistry()
	if cfg.Filter.OverridesFile != "" {
		if err := registry.LoadOverrides(cfg.Filter.OverridesFile); err != nil {
			log.Warnf("Ignoring overrides: %v", err)
		}
	}

	load := func() (*languages.Set, error) {
		if cfg.Filter.LanguagesFile != "" {
			return languages.Load(cfg.Filter.LanguagesFile)
		}
		return langdata.DisplayNames(languages.DefaultCodes, cfg.Filter.UILanguage)
	}

	var api languagefilter.SearchAPI
	if cfg.Search.URL != "" {
		client, err := searchapi.New(cfg.Search.URL, searchapi.WithTimeout(cfg.Search.Timeout()))
		if err != nil {
			log.Fatalf("Invalid search endpoint: %v", err)
		}
		api = client
	}

	ctx, stop := sigHandler()
	defer stop()

	switch {
	case *tuiMode:
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			log.Fatal("The picker needs a terminal")
		}
		langs, err := load()
		if err != nil {
			log.Fatalf("Failed to load languages: %v", err)
		}
		code, err := tui.Run(tui.Options{
			Languages: langs,
			Data:      registry,
			API:       api,
			Delay:     cfg.Filter.Delay(),
		})
		if err != nil {
			log.Fatalf("Picker error: %v", err)
		}
		if code != "" {
			fmt.Println(code)
		}

	// CLI would be mainly used for testing and dbg purposes.
	case *cliMode:
		log.SetReportTimestamp(false)
		langs, err := load()
		if err != nil {
			log.Fatalf("Failed to load languages: %v", err)
		}
		handler, err := cli.NewInputHandler(langs, registry, api, *limit)
		if err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	default:
		log.Debug("spawning IPC")
		source := cfg.Filter.LanguagesFile
		if source == "" {
			source = "builtin:" + cfg.Filter.UILanguage
		}
		srv, err := server.NewServer(server.Options{
			Load:   load,
			Source: source,
			Data:   registry,
			API:    api,
			Config: cfg,
		})
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
		if cfg.Server.Watch && cfg.Filter.LanguagesFile != "" {
			go func() {
				if err := srv.Watch(ctx, cfg.Filter.LanguagesFile); err != nil {
					log.Warnf("File watch stopped: %v", err)
				}
			}()
		}
		showStartupInfo(source)

		// Decode blocks on stdin, so a signal ends the process directly.
		go func() {
			<-ctx.Done()
			fmt.Fprintf(os.Stderr, "\nExiting...\n")
			os.Exit(0)
		}()
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ langfilter ] Type a few letters, get the right language.")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(source string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("languages: ( %s )", source)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
