package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/glabrego/headlines-cli/internal/app"
	"github.com/glabrego/headlines-cli/internal/config"
	"github.com/glabrego/headlines-cli/internal/feed"
	"github.com/glabrego/headlines-cli/internal/imagecache"
	"github.com/glabrego/headlines-cli/internal/logging"
	"github.com/glabrego/headlines-cli/internal/newsapi"
	"github.com/glabrego/headlines-cli/internal/settings"
	"github.com/glabrego/headlines-cli/internal/storage"
	"github.com/glabrego/headlines-cli/internal/tui"
	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

var version = "dev"

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("flags error: %v", err)
	}
	if flags.Version {
		fmt.Println("headlines", version)
		return
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := flags.Apply(cfg); err != nil {
		log.Fatalf("config error: %v", err)
	}
	if flags.PrintConfig {
		out, err := cfg.YAML()
		if err != nil {
			log.Fatalf("config error: %v", err)
		}
		fmt.Print(string(out))
		return
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatalf("headlines needs an interactive terminal")
	}

	logger, closeLog, err := logging.Open(cfg.Env, cfg.Log.File)
	if err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer closeLog()

	repo, err := storage.NewRepository(cfg.DB.Path)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	schema, err := repo.Migrate()
	if err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	logger.Info("starting", "version", version, "env", cfg.Env, "db", cfg.DB.Path, "schema", schema)

	client := newsapi.NewClient(cfg.API.BaseURL, cfg.API.Key, &http.Client{Timeout: cfg.API.Timeout})
	service := app.NewService(client, repo, logger)

	controller := feed.NewController(service, feed.Options{
		Country:        cfg.API.Country,
		PageSize:       cfg.Feed.PageSize,
		Debounce:       cfg.Feed.Debounce,
		MinQueryLength: cfg.Feed.MinQueryLength,
		Timeout:        cfg.API.Timeout,
		Logger:         logger.With("component", "feed"),
	})

	images := imagecache.New(imagecache.Config{
		MaxBytes: cfg.Images.MaxBytes,
		TTL:      cfg.Images.TTL,
	}, nil)

	model := tui.NewModel(tui.Options{
		Service: service,
		Feed:    controller,
		Images:  images,
		Links: settings.Links{
			RateApp:       cfg.Links.RateApp,
			PrivacyPolicy: cfg.Links.PrivacyPolicy,
			TermsOfUse:    cfg.Links.TermsOfUse,
		},
		SystemDark: tuitheme.DetectDarkBackground(),
		Logger:     logger.With("component", "tui"),
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("tui stopped", "err", err)
		log.Fatalf("tui error: %v", err)
	}
	logger.Info("stopped")
}
