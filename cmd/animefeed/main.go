package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/app"
	"github.com/nhle/animefeed/internal/credential"
	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/logging"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/saved"
	"github.com/nhle/animefeed/internal/service"
	"github.com/nhle/animefeed/internal/store"
	appsync "github.com/nhle/animefeed/internal/sync"
)

var exitFunc = os.Exit

func main() {
	if err := runMain(os.Args[1:], os.Stderr); err != nil {
		exitFunc(1)
	}
}

func runMain(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("animefeed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return err
	}

	log, err := logging.New(logging.Level(cfg.Log.Level), cfg.Log.Format, cfg.Log.File)
	if err != nil {
		fmt.Fprintln(stderr, "logger error:", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("animefeed exited", zap.Error(err))
		fmt.Fprintln(stderr, "run error:", err)
		return err
	}
	return nil
}

func run(cfg *model.AppConfig, log *logging.Logger) error {
	ring, err := credential.Open()
	if err != nil {
		return err
	}
	session := credential.NewSession(ring)
	if err := session.Load(); err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer db.Close()

	savedSet := saved.New(db)
	if err := savedSet.Reload(context.Background()); err != nil {
		log.Warn("reading saved activities failed", zap.Error(err))
	}

	client := api.NewClient(cfg.API.BaseURL, session, api.Options{
		Timeout:     time.Duration(cfg.API.TimeoutSec) * time.Second,
		MaxAttempts: cfg.API.MaxAttempts,
		Backoff:     time.Duration(cfg.API.BackoffMS) * time.Millisecond,
		Logger:      log.With(zap.String("component", "api")),
	})
	svc := service.New(client)

	f := feed.New(feed.Config{
		Activities:    svc.Feed,
		Notifications: svc.Notifications,
		Saved:         savedSet,
		Actions: feed.ActionDeps{
			Likes:      svc.Likes,
			Comments:   svc.Comments,
			Activities: svc.Activities,
			AutoExpand: cfg.Feed.AutoExpandComments,
		},
		Pages: feed.PageOptions{
			FirstPageSize: cfg.Feed.FirstPageSize,
			InitialWindow: cfg.Feed.InitialWindow,
			PageSize:      cfg.Feed.PageSize,
		},
		Logger: log.With(zap.String("component", "feed")),
	})

	poller := appsync.New(
		svc.Notifications,
		time.Duration(cfg.Notifications.PollIntervalSec)*time.Second,
		log.With(zap.String("component", "poller")),
	)

	m := app.New(app.Deps{
		Session:       session,
		Auth:          svc.Auth,
		Follows:       svc.Follows,
		Posts:         svc.Posts,
		Notifications: svc.Notifications,
		Saved:         savedSet,
		Feed:          f,
		Poller:        poller,
		Logger:        log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = p.Run()
	poller.Stop()
	f.Wait()
	return err
}
