package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/drilldown"
	"github.com/aretw0/drilldown/internal/cli"
	"github.com/aretw0/drilldown/internal/logging"
	"github.com/aretw0/drilldown/internal/ops"
	"github.com/aretw0/drilldown/pkg/adapters/redis"
	"github.com/aretw0/drilldown/pkg/adapters/telegram"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/observability"
	"github.com/aretw0/drilldown/pkg/ports"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot against the configured graph",
	Long:  `Loads the configuration file, builds the navigation graph, and polls Telegram for updates until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return runBot(configPath)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBot(configPath string) error {
	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(parseLevel(cfg.LogLevel))

	graph, err := cli.BuildGraph(cfg)
	if err != nil {
		return err
	}

	client := telegram.NewClient(cfg.Token)
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	opts := []drilldown.Option{
		drilldown.WithLogger(logger),
		drilldown.WithLifecycleHooks(metrics.Hooks()),
	}
	if len(cfg.AllowedIDs) > 0 {
		opts = append(opts, drilldown.WithAllowedIDs(cfg.AllowedIDs))
	}
	if cfg.Debug.State != "" {
		opts = append(opts, drilldown.WithDebug(domain.State(cfg.Debug.State), cfg.Debug.Data))
	}
	if cfg.KeyboardDelayMS > 0 {
		opts = append(opts, drilldown.WithKeyboardDelay(time.Duration(cfg.KeyboardDelayMS)*time.Millisecond))
	}
	if cfg.Redis.Addr != "" {
		store, locker, err := redisBackend(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, drilldown.WithStore(store), drilldown.WithLocker(locker))
	}

	bot, err := drilldown.New(client, domain.State(cfg.Root), graph, opts...)
	if err != nil {
		return err
	}

	if cfg.OpsAddr != "" {
		go serveOps(cfg.OpsAddr, bot, logger)
	}

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()

	poller := telegram.NewPoller(client, telegram.WithPollerLogger(logger))
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		_ = poller.Run(pollCtx, func(ctx context.Context, update domain.Update) {
			if _, err := bot.HandleUpdate(ctx, update); err != nil {
				logger.Error("update handling failed",
					"chat_id", update.ChatID,
					"err", err,
				)
			}
		})
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	logger.Info("drillbot started", "root", cfg.Root, "states", len(cfg.States))

	select {
	case sig := <-signals:
		logger.Info("shutting down", "signal", sig.String())
		stopPolling()
		<-pollDone
		return nil

	case <-bot.Restarts():
		// The requesting user was already replied to. Drain the poller so
		// no in-flight update is lost, then replace the process image.
		logger.Info("restart requested, draining updates")
		stopPolling()
		<-pollDone
		return reexec()
	}
}

// reexec replaces the current process with a fresh copy of itself.
func reexec() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable for restart: %w", err)
	}
	return syscall.Exec(executable, os.Args, os.Environ())
}

func redisBackend(cfg *cli.Config) (ports.SessionStore, ports.DistributedLocker, error) {
	ttl, err := cfg.Redis.SessionTTL()
	if err != nil {
		return nil, nil, fmt.Errorf("config: invalid redis ttl: %w", err)
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithTTL(ttl))
	locker := redis.NewLocker(store.Client(), "drilldown:lock:")
	return store, locker, nil
}

func serveOps(addr string, bot *drilldown.Bot, logger *slog.Logger) {
	handler := ops.NewHandler(prometheus.DefaultGatherer, bot.Sessions().Store())
	logger.Info("ops server listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("ops server stopped", "err", err)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
