// Package cli wires the session engine together for command-line use.
package cli

import (
	"context"
	"fmt"

	"github.com/strataview/strata/internal/config"
	"github.com/strataview/strata/internal/infrastructure/favicon"
	"github.com/strataview/strata/internal/infrastructure/headless"
	"github.com/strataview/strata/internal/infrastructure/suggest"
	"github.com/strataview/strata/internal/infrastructure/summarize"
	"github.com/strataview/strata/internal/logging"
	"github.com/strataview/strata/internal/persistence/sqlite"
	"github.com/strataview/strata/internal/search"
	"github.com/strataview/strata/internal/session"
	"github.com/strataview/strata/internal/summary"
)

// App holds the assembled engine for CLI commands: config, store, session
// model, search composer, and summary service.
type App struct {
	Cfg       *config.Config
	Store     *sqlite.Store
	Model     *session.Model
	Composer  *search.Composer
	Summaries *summary.Service
	Favicons  *favicon.Service

	ctx context.Context
}

// NewApp loads configuration, opens the store, and restores the session.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	favicons := favicon.NewService(cfg.Favicons.CacheDir)

	model := session.NewModel(session.Options{
		HomeURL:          cfg.Browsing.HomeURL,
		DefaultSpaceName: cfg.Browsing.DefaultSpaceName,
		HistoryMax:       cfg.History.MaxEntries,
		Store:            store,
		Factory:          headless.Factory(),
		Favicons:         favicons,
	})
	if err := model.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	composer := search.NewComposer(
		model,
		search.Direct{Source: suggest.NewSource(cfg.Search.SuggestURL)},
		searchOptions(cfg),
	)

	summaries := summary.NewService(
		summarize.NewExtractor(),
		summarize.NewOllama(cfg.Summarizer.Host, cfg.Summarizer.Model),
		summary.NewCache(store),
		summary.Options{MaxChars: cfg.Summarizer.MaxChars},
	)

	return &App{
		Cfg:       cfg,
		Store:     store,
		Model:     model,
		Composer:  composer,
		Summaries: summaries,
		Favicons:  favicons,
		ctx:       ctx,
	}, nil
}

func searchOptions(cfg *config.Config) search.Options {
	return search.Options{
		EngineName:    cfg.Search.EngineName,
		EngineURL:     cfg.Search.EngineURL,
		HistoryWindow: cfg.Search.HistoryWindow,
	}
}

// InteractiveComposer builds a composer whose remote suggestions go through
// the configured debounce delay, for surfaces that recompose per input
// change. The debouncer delivers fresh suggestion results on a background
// goroutine through its update callback; callers marshal onto their own
// owner thread.
func (a *App) InteractiveComposer() (*search.Composer, *search.Debouncer) {
	deb := search.NewDebouncer(
		suggest.NewSource(a.Cfg.Search.SuggestURL),
		a.Cfg.Search.SuggestionDebounce,
	)
	return search.NewComposer(a.Model, deb, searchOptions(a.Cfg)), deb
}

// Ctx returns the app context carrying the configured logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases the rendering pool, favicon cache, and store.
func (a *App) Close() error {
	a.Model.Pool().Close()
	a.Favicons.Close()
	return a.Store.Close()
}
