package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anigo/internal/browse"
	"github.com/mmcdole/anigo/internal/catalog"
	"github.com/mmcdole/anigo/internal/config"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/jikan"
	"github.com/mmcdole/anigo/internal/launcher"
	"github.com/mmcdole/anigo/internal/store"
	"github.com/mmcdole/anigo/internal/tui"
	"github.com/mmcdole/anigo/internal/watchlater"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configPath  string
		setup       bool
		clearCache  cacheScope
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&setup, "setup", false, "write a config file interactively")
	flag.Var(&clearCache, "clear-cache", "drop cached catalog data and exit (=details keeps genres)")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("anigo %s\n", Version)
		return
	}

	var err error
	switch {
	case setup:
		err = runSetup(configPath)
	default:
		err = run(configPath, clearCache, flag.Args())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  anigo [flags]                   browse the catalog\n")
	fmt.Fprintf(out, "  anigo list [-q text] [-page n] [-type t] [-genre a,b] [-from date] [-to date]\n")
	fmt.Fprintf(out, "  anigo later add ID [-weight n] | rm ID | ls [-page n] [-by weight|savedAt]\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

// app holds the wired services shared by the TUI and the subcommands
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   domain.Store
	client  *jikan.Client
	catalog *catalog.Service
	later   *watchlater.Store

	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// newApp loads configuration and wires storage and the catalog client
func newApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logger, logFile, err := config.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = config.NullLogger()
	} else {
		a.closers = append(a.closers, logFile)
	}
	slog.SetDefault(logger)
	a.logger = logger

	logger.Info("starting anigo", "version", Version, "storage", cfg.Storage.Driver)

	st, err := store.OpenDriver(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st)

	a.client = jikan.NewClient(cfg.API.BaseURL, jikan.Options{
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		RetryDelay: cfg.API.RetryDelay,
		UserAgent:  "anigo/" + Version,
	}, logger)

	a.catalog = catalog.NewService(a.client, st.Cache(), catalog.Options{
		TTL: cfg.Storage.CacheTTL,
	}, logger)
	a.later = watchlater.Open(st.State(), logger)

	return a, nil
}

func run(configPath string, clearCache cacheScope, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	switch clearCache {
	case scopeAll:
		if err := a.catalog.Invalidate(); err != nil {
			return err
		}
		fmt.Println("✓ Catalog cache cleared")
		return nil
	case scopeDetails:
		if err := a.catalog.InvalidateDetails(); err != nil {
			return err
		}
		fmt.Println("✓ Cached details cleared")
		return nil
	}

	if len(args) > 0 {
		switch args[0] {
		case "list":
			return runList(a, args[1:])
		case "later":
			return runLater(a, args[1:])
		default:
			usage()
			return fmt.Errorf("unknown command %q", args[0])
		}
	}

	return runTUI(a)
}

func runTUI(a *app) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the browser needs a terminal; use `anigo list` for plain output")
	}

	observer := tui.NewChannelObserver()
	controller := browse.New(a.catalog, browse.Options{
		PageSize: a.cfg.API.PageSize,
		Debounce: a.cfg.Browse.Debounce,
		Timeout:  a.cfg.API.Timeout,
		Observer: observer,
	}, a.logger)
	defer controller.Close()

	opener := launcher.New(a.cfg.Opener.Command, a.cfg.Opener.Args, a.logger)

	model := tui.NewModel(controller, a.catalog, a.later, opener, observer.States(), tui.Options{
		WatchLaterPageSize: a.cfg.WatchLater.PageSize,
		Logger:             a.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI", "opener", opener.Describe())

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
