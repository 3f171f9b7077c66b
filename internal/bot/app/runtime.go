// Package app wires the bot runtime: storage, the Discord gateway, the
// session manager, background tasks, and a health endpoint.
package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/bot/commands"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/platform/discord"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/platform/logging"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/platform/schedule"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/manager"
	boltstore "github.com/apxxxxxxe/Pomomo-sub001/internal/storage/bbolt"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/storage/sqlite"
)

// RuntimeConfig controls bot startup, storage paths, and loop intervals.
type RuntimeConfig struct {
	Token            string        `env:"POMOMO_DISCORD_TOKEN"`
	HealthPort       int           `env:"POMOMO_HEALTH_PORT" envDefault:"8090"`
	SessionDBPath    string        `env:"POMOMO_SESSION_DB" envDefault:"data/sessions.db"`
	HistoryDBPath    string        `env:"POMOMO_HISTORY_DB" envDefault:"data/history.db"`
	SweepInterval    time.Duration `env:"POMOMO_SWEEP_INTERVAL" envDefault:"30m"`
	IdleThreshold    int           `env:"POMOMO_IDLE_THRESHOLD" envDefault:"2"`
	SnapshotInterval time.Duration `env:"POMOMO_SNAPSHOT_INTERVAL" envDefault:"5m"`
	SnapshotMaxAge   time.Duration `env:"POMOMO_SNAPSHOT_MAX_AGE" envDefault:"24h"`
	LogLevel         string        `env:"POMOMO_LOG_LEVEL" envDefault:"info"`
}

// Run starts the bot and blocks until ctx is cancelled. Every live session
// is flushed to storage on the way out.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return fmt.Errorf("discord token is required")
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 30 * time.Minute
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 5 * time.Minute
	}

	logging.SetLevel(cfg.LogLevel)
	log := logging.NewLogger("bot")

	for _, path := range []string{cfg.SessionDBPath, cfg.HistoryDBPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create storage dir: %w", err)
			}
		}
	}

	sessionStore, err := boltstore.Open(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if closeErr := sessionStore.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("close session store")
		}
	}()

	historyStore, err := sqlite.Open(cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() {
		if closeErr := historyStore.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("close history store")
		}
	}()

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages

	adapter := discord.NewAdapter(session, logging.NewLogger("discord"))

	mgr, err := manager.New(manager.Config{
		Store:         sessionStore,
		History:       historyStore,
		Messenger:     adapter,
		Muter:         adapter,
		Permissions:   adapter,
		Directory:     adapter,
		Voice:         adapter,
		IdleThreshold: cfg.IdleThreshold,
		Log:           logging.NewLogger("session"),
	})
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}

	handler := commands.NewHandler(mgr, adapter, adapter, logging.NewLogger("commands"))
	session.AddHandler(handler.Route)
	session.AddHandler(func(_ *discordgo.Session, update *discordgo.VoiceStateUpdate) {
		eventCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		mgr.HandleVoiceEvent(eventCtx, discord.VoiceEventFromUpdate(update))
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("close discord gateway")
		}
	}()

	if err := registerCommands(session); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	recovered, err := mgr.RecoverAll(ctx, cfg.SnapshotMaxAge)
	if err != nil {
		return fmt.Errorf("recover sessions: %w", err)
	}
	if recovered > 0 {
		log.WithField("count", recovered).Info("recovered persisted sessions")
	}

	sweep := mgr.StartIdleSweep(ctx, cfg.SweepInterval)
	defer sweep.Stop()
	snapshots := startSnapshotTask(ctx, mgr, cfg.SnapshotInterval)
	defer snapshots.Stop()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HealthPort))
	if err != nil {
		return fmt.Errorf("listen on health port %d: %w", cfg.HealthPort, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("bot.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.WithField("addr", listener.Addr().String()).Info("bot running")
	<-ctx.Done()

	// The parent context is already cancelled; the flush gets its own.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mgr.SaveAll(flushCtx)
	log.Info("sessions flushed, shutting down")
	return nil
}

// startSnapshotTask periodically flushes every live session to storage so
// a crash loses at most one interval of progress.
func startSnapshotTask(ctx context.Context, mgr *manager.Manager, interval time.Duration) *schedule.Task {
	return schedule.Start(ctx, interval, mgr.SaveAll)
}

// registerCommands overwrites the bot's global slash commands with the
// current definitions.
func registerCommands(session *discordgo.Session) error {
	if session.State == nil || session.State.User == nil {
		return fmt.Errorf("gateway session has no bot identity")
	}
	appID := session.State.User.ID
	if _, err := session.ApplicationCommandBulkOverwrite(appID, "", commands.Definitions()); err != nil {
		return err
	}
	return nil
}
