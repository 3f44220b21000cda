// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the dictionary index server and interactive menu.

WordTrie loads a word/frequency corpus into an in-memory prefix tree and
answers three kinds of queries: exact lookup, frequency ranked autocomplete
and did-you-mean suggestions within a bounded edit distance.

# Usage

Start the msgpack IPC server with the configured dictionary:

	wordtrie

Run the interactive menu on a specific dictionary with debug logs:

	wordtrie -c -dict /path/to/dictionary.txt -d

# Dictionary files

Text dictionaries hold one `word frequency` pair per line. Blank and
malformed lines are skipped. Files ending in .msgpack or .mpk are binary
snapshots written by the save action and load faster on large corpora.

# Configuration

Runtime configuration lives in a TOML file (YAML when the path ends in .yaml):

	[dict]
	path = "dictionary.txt"
	encoding = "utf-8"
	save_on_exit = false

	[suggest]
	autocomplete_limit = 5
	max_edit_distance = 2
	max_suggestions = 10
	cache_size = 1024
	cache_depth = 64

The config file is created with defaults if it doesn't exist.

# Command Line Flags

	-config string
	    Path to a config file (default: user config dir)
	-dict string
	    Dictionary file, overrides the config
	-d  Enable debug mode with detailed logging
	-c  Run the interactive menu instead of the IPC server
	-limit int
	    Number of autocomplete results in the menu
	-distance int
	    Maximum edit distance for suggestions
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordtrie"
)

// sigHandler runs onExit and quits on SIGINT/SIGTERM.
func sigHandler(onExit func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		onExit()
		os.Exit(0)
	}()
}

// main only wires config, dictionary and the chosen frontend together.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file (.toml or .yaml)")
	dictPath := flag.String("dict", "", "Dictionary file to load (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive menu instead of the IPC server")
	limit := flag.Int("limit", 0, "Number of autocomplete results in the menu (default from config)")
	distance := flag.Int("distance", -1, "Maximum edit distance for suggestions (default from config)")

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

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Failed to load config: %v. Using built-in defaults...", err)
		appConfig = defaultConfig
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if *dictPath != "" {
		appConfig.Dict.Path = *dictPath
	}
	if *limit > 0 {
		appConfig.CLI.DefaultLimit = *limit
	}
	if *distance >= 0 {
		appConfig.Suggest.MaxEditDistance = *distance
	}

	completer := suggest.NewCachedCompleter(appConfig.Suggest.CacheSize, appConfig.Suggest.CacheDepth)
	loadDictionary(completer, appConfig.Dict)

	if appConfig.Dict.SaveOnExit {
		sigHandler(func() { saveDictionary(completer, appConfig.Dict) })
		defer saveDictionary(completer, appConfig.Dict)
	} else {
		sigHandler(func() {})
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		menu := cli.NewMenuHandler(completer, appConfig, appConfig.Dict.Path, os.Stdin, os.Stdout)
		if err := menu.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig, appConfig.Dict.Path)
	showStartupInfo(appConfig.Dict.Path, completer.Stats()["totalWords"])

	if err := srv.Start(); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

// loadDictionary fills the completer. A missing or unreadable dictionary is
// not fatal: the index starts empty and can be grown with inserts.
func loadDictionary(completer *suggest.Completer, dict config.DictConfig) {
	if dict.Path == "" {
		log.Warn("No dictionary specified, running with empty dict...")
		return
	}

	l := logger.New("dict")
	stats, err := dictionary.LoadFile(dict.Path, dict.Encoding, completer)
	if err != nil {
		l.Warnf("Could not load dictionary: %v. Running with empty dict...", err)
		return
	}
	if stats.Loaded == 0 {
		l.Warnf("Dictionary %s has no valid entries", dict.Path)
		return
	}
	l.Infof("Loaded %d words (%d lines skipped)", stats.Loaded, stats.Skipped)
}

// saveDictionary may run on the signal goroutine; Completer serializes it
// against the frontend's own calls.
func saveDictionary(completer *suggest.Completer, dict config.DictConfig) {
	if err := dictionary.SaveFile(dict.Path, dict.Encoding, completer.Entries()); err != nil {
		log.Errorf("Failed to save dictionary: %v", err)
		return
	}
	log.Debugf("Saved dictionary to %s", dict.Path)
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WordTrie ] trie backed autocomplete and spell checking")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dictPath string, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s ), %d words", dictPath, words)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
