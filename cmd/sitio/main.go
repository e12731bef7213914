package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/escuadron-404/sitio/internal/auth"
	"github.com/escuadron-404/sitio/internal/config"
	"github.com/escuadron-404/sitio/internal/contact"
	"github.com/escuadron-404/sitio/internal/content"
	"github.com/escuadron-404/sitio/internal/github"
	"github.com/escuadron-404/sitio/internal/i18n"
	"github.com/escuadron-404/sitio/internal/journal"
	"github.com/escuadron-404/sitio/internal/livereload"
	"github.com/escuadron-404/sitio/internal/metrics"
	"github.com/escuadron-404/sitio/internal/server"
	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/testimonials"
	"github.com/escuadron-404/sitio/internal/theme"

	// Theme packages register themselves with the default registry.
	_ "github.com/escuadron-404/sitio/internal/theme/themes/kayron"
	_ "github.com/escuadron-404/sitio/internal/theme/themes/pix"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Dev bool `help:"Enable development mode (live reload, Turnstile bypass)"`
	} `cmd:"" help:"Start the site server"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Render struct {
		Locale string `short:"l" help:"Locale to render" default:"es"`
		Theme  string `short:"t" help:"Theme id to render (default theme when empty)"`
		Output string `short:"o" help:"Output file (stdout when empty)"`
	} `cmd:"" help:"Render the landing page once and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if CLI.Serve.Dev {
			cfg.Server.Dev = true
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	case "render":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runRender(cfg, CLI.Render.Locale, CLI.Render.Theme, CLI.Render.Output); err != nil {
			slog.Error("Render failed", "error", err)
			os.Exit(1)
		}
	}
}

func runServe(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dicts, err := i18n.NewStore()
	if err != nil {
		return fmt.Errorf("load locale dictionaries: %w", err)
	}

	// Project listing: GitHub client behind a periodically refreshed cache.
	refresh, err := time.ParseDuration(cfg.GitHub.Refresh)
	if err != nil {
		return fmt.Errorf("invalid github.refresh: %w", err)
	}
	ghClient, err := github.NewClient(cfg.GitHub)
	if err != nil {
		return fmt.Errorf("create github client: %w", err)
	}
	projectCache := github.NewCache(ghClient, refresh)
	if err := projectCache.Start(ctx); err != nil {
		return fmt.Errorf("start project cache: %w", err)
	}
	defer func() {
		if err := projectCache.Stop(); err != nil {
			slog.Warn("Failed to stop project cache", "error", err)
		}
	}()

	aggregator := content.New(dicts, projectCache,
		testimonials.NewSource(cfg.Content.TestimonialsPath), cfg.Site)

	registry := theme.Default
	if registry.DefaultID() == "" {
		return fmt.Errorf("no themes registered")
	}

	// Contact pipeline: verifier, sinks, optional journal.
	verifier := contact.NewTurnstileVerifier(cfg.Contact.TurnstileSecret, cfg.Server.Dev)
	discordSink := contact.NewDiscordSink(cfg.Contact.DiscordWebhookURL)
	natsSink, err := contact.NewNATSSink(cfg.Contact.NATSURL, cfg.Contact.NATSSubject)
	if err != nil {
		slog.Warn("NATS sink unavailable, continuing without it", "error", err)
		natsSink, _ = contact.NewNATSSink("", "")
	}
	defer natsSink.Close()

	var recorder contact.Recorder
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open submission journal: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close submission journal", "error", err)
			}
		}()
		recorder = store
	}
	pipeline := contact.NewPipeline(verifier, []contact.Sink{discordSink, natsSink}, recorder)

	provider, err := auth.ForName(cfg.Auth.Provider)
	if err != nil {
		return err
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		prec := metrics.NewPrometheusRecorder(nil)
		rec = prec
		metricsHandler = prec.Handler()
	}

	var hub *livereload.Hub
	if cfg.Server.Dev {
		hub = livereload.NewHub()
		defer hub.Shutdown()
		watcher, err := livereload.NewWatcher(cfg.Server.StaticDir, hub)
		if err != nil {
			return fmt.Errorf("create livereload watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start livereload watcher: %w", err)
		}
		defer watcher.Stop()
	}

	srv := server.New(cfg, server.Options{
		Registry:       registry,
		Resolver:       theme.NewResolver(registry),
		Sessions:       session.NewManager(registry),
		Aggregator:     aggregator,
		Dicts:          dicts,
		Pipeline:       pipeline,
		AuthProvider:   provider,
		Recorder:       rec,
		MetricsHandler: metricsHandler,
		LiveReloadHub:  hub,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	slog.Info("Server started, waiting for shutdown signal...")
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping server...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	slog.Info("Server stopped successfully")
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", "path", configPath, "force", force)
	return config.Init(configPath, force)
}

// runRender produces one page render without starting the server, useful
// for smoke-testing themes and content offline.
func runRender(cfg *config.Config, locale, themeID, output string) error {
	dicts, err := i18n.NewStore()
	if err != nil {
		return fmt.Errorf("load locale dictionaries: %w", err)
	}

	registry := theme.Default
	id := registry.DefaultID()
	if themeID != "" {
		id = theme.ID(themeID)
	}
	bundle, err := registry.Load(id)
	if err != nil {
		return fmt.Errorf("load theme %s: %w", id, err)
	}

	ghClient, err := github.NewClient(cfg.GitHub)
	if err != nil {
		return fmt.Errorf("create github client: %w", err)
	}
	aggregator := content.New(dicts, ghClient,
		testimonials.NewSource(cfg.Content.TestimonialsPath), cfg.Site)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	snap := aggregator.Snapshot(ctx, locale)

	data := &theme.PageData{
		ThemeID:          id,
		Themes:           registry.List(),
		Locales:          i18n.SupportedLocales,
		Dev:              false,
		Year:             time.Now().Year(),
		TurnstileSiteKey: cfg.Contact.TurnstileSiteKey,
		Snapshot:         snap,
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := bundle.RenderPage(out, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	slog.Info("Page rendered", "theme", string(id), "locale", snap.Locale, "output", output)
	return nil
}
