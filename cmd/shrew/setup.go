package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/scholartools/shrew/internal/config"
	"github.com/scholartools/shrew/internal/engine"
	"github.com/scholartools/shrew/internal/errlog"
	"github.com/scholartools/shrew/internal/history"
	"github.com/scholartools/shrew/internal/library"
	"github.com/scholartools/shrew/internal/resolver"
	"github.com/scholartools/shrew/internal/store"
)

// app bundles the wired-up collaborators for one command invocation.
type app struct {
	cfg     *config.Config
	store   *store.DB
	engine  *engine.Engine
	library *library.Client
	hist    *history.List
}

// mustApp loads config and wires the engine, exiting on failure.
func mustApp() *app {
	cfg, err := config.Load(config.Path())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		exitWithError(ExitConfigError, "opening reference cache: %v", err)
	}

	var httpClient *http.Client
	if cfg.Timeout() > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}

	var resolverOpts []resolver.Option
	var libraryOpts []library.Option
	if cfg.ResolverURL != "" {
		resolverOpts = append(resolverOpts, resolver.WithBaseURL(cfg.ResolverURL))
	}
	if cfg.LibraryURL != "" {
		libraryOpts = append(libraryOpts, library.WithBaseURL(cfg.LibraryURL))
	}
	if httpClient != nil {
		resolverOpts = append(resolverOpts, resolver.WithHTTPClient(httpClient))
		libraryOpts = append(libraryOpts, library.WithHTTPClient(httpClient))
	}

	opts := []engine.Option{engine.WithSink(errlog.New(cfg.LogPath))}
	if !noPrompt {
		opts = append(opts, engine.WithPrompter(stdinPrompter{}))
	}

	hist, err := history.Load(cfg.HistoryPath)
	if err != nil {
		// A corrupt history file should not block real work.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		hist = &history.List{}
	}

	libClient := library.NewClient(libraryOpts...)
	return &app{
		cfg:     cfg,
		store:   db,
		engine:  engine.New(resolver.NewClient(resolverOpts...), libClient, db, opts...),
		library: libClient,
		hist:    hist,
	}
}

// close releases resources and persists the lookup history.
func (a *app) close() {
	if err := a.hist.Save(a.cfg.HistoryPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving history: %v\n", err)
	}
	a.store.Close()
}

// remember records a lookup in the history.
func (a *app) remember(id string) {
	a.hist.Add(id)
}

// stdinPrompter asks the trash-and-retry question on the terminal.
type stdinPrompter struct{}

func (stdinPrompter) ConfirmTrash(doc *engine.Document) bool {
	fmt.Fprintf(os.Stderr, "Document %q was added without a file attached.\n", doc.Title)
	fmt.Fprint(os.Stderr, "Trash it so the add can be retried? [y/N] ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
