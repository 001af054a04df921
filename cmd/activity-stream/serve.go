package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/Hwangyonghwan/activity-stream/internal/config"
	"github.com/Hwangyonghwan/activity-stream/internal/thumbs"
	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/prefs"
	"github.com/Hwangyonghwan/activity-stream/pkg/sections"
	"github.com/Hwangyonghwan/activity-stream/pkg/surface"
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
)

const thumbCleanupInterval = 15 * time.Minute

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the activity stream server",
		Long: `Start the HTTP server: the server-rendered new-tab page on /newtab,
the surface WebSocket on /ws, prometheus metrics on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			return runServer(cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to activitystream.json")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the configured port")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Load(wd)
}

func runServer(cfg *config.Config, logger *slog.Logger) error {
	store := prefs.NewStore(cfg.Prefs, logger)
	manager := sections.NewManager(logger)

	thumbStore, err := newThumbStore(cfg)
	if err != nil {
		return err
	}
	ingester := thumbs.NewIngester(thumbStore, logger)

	var feed *sections.Feed
	hub := surface.NewHub(cfg.Surface, func(a actions.Action) { feed.OnAction(a) },
		surface.WithLogger(logger))

	// Section broadcasts pass through the rewriter so story images are
	// cached and served from /thumbs/ instead of the origin site.
	dispatcher := thumbs.NewRewriter(ingester, hub, logger)
	feed = sections.NewFeed(manager, store, dispatcher, sections.WithLogger(logger))

	collector := telemetry.NewDispatchCollector(hub)

	// Arm init before seeding so catch-up replays every built-in.
	feed.OnAction(actions.Action{Type: actions.TypeInit})
	feed.OnAction(actions.Action{
		Type: actions.TypePrefsInitialValues,
		Data: store.Snapshot(),
	})
	enableConfiguredFeeds(cfg, manager)

	srv := surface.NewServer(cfg, hub, manager, store, collector, logger,
		surface.WithThumbs(thumbStore))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go thumbCleanupLoop(ctx, thumbStore, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	success("serving on %s", cfg.URL())
	info("new tab:  %s/newtab", cfg.URL())
	info("metrics:  %s/metrics", cfg.URL())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	feed.OnAction(actions.Action{Type: actions.TypeUninit})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// enableConfiguredFeeds turns on the built-ins named in config.Feeds,
// or all of them when the list is empty.
func enableConfiguredFeeds(cfg *config.Config, manager *sections.Manager) {
	allowed := make(map[string]bool, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		allowed[feed] = true
	}
	for _, s := range manager.Snapshot() {
		if len(allowed) == 0 || allowed[s.Pref.Feed] {
			manager.EnableSection(s.ID)
		}
	}
}

// newThumbStore picks the S3 backend when a bucket is configured,
// otherwise the local disk store.
func newThumbStore(cfg *config.Config) (thumbs.Store, error) {
	if cfg.Thumbs.S3Bucket != "" {
		client := s3.New(s3.Options{Region: cfg.Thumbs.S3Region})
		return thumbs.NewS3Store(client, cfg.Thumbs.S3Bucket, cfg.Thumbs.S3Prefix, cfg.Thumbs.MaxBytes), nil
	}
	return thumbs.NewDiskStore(cfg.Thumbs.Dir, cfg.Thumbs.MaxBytes)
}

func thumbCleanupLoop(ctx context.Context, store thumbs.Store, logger *slog.Logger) {
	ticker := time.NewTicker(thumbCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := store.Cleanup(ctx, 24*time.Hour); err != nil {
				logger.Warn("thumb cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
