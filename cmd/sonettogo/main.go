package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sonettogo/server/internal/auth"
	"github.com/sonettogo/server/internal/config"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/handler"
	gonet "github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/persist/memstore"
	"github.com/sonettogo/server/internal/servertime"
	"github.com/sonettogo/server/internal/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const serviceName = "sonettogo"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             SonettoGo  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("SONETTO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file: boot a throwaway dev server.
		cfg = config.Default()
		cfg.Database.Driver = "memory"
		fmt.Fprintf(os.Stderr, "config %s not found, using defaults with the memory store\n", cfgPath)
	case err != nil:
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	// 3. Load the catalogue
	printSection("catalogue")
	cat, err := data.LoadCatalogue(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("catalogue: %w", err)
	}
	counts := cat.Counts()
	for _, name := range data.TableNames {
		printStat(name, counts[name])
	}
	fmt.Println()

	// 4. Open storage
	printSection("storage")
	store, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.ResetOnline(ctx); err != nil {
		return fmt.Errorf("reset online flags: %w", err)
	}
	fmt.Println()

	// 5. Wire handlers
	deps := &handler.Deps{
		Store:     store,
		Catalogue: cat,
		Auth:      auth.NewAuthenticator(store, cfg.Auth, log),
		Config:    cfg,
		Clock:     servertime.System,
		Calendar: servertime.Calendar{
			UTCOffsetHours: cfg.Server.UTCOffsetHours,
			ResetHour:      cfg.Server.DailyResetHour,
		},
		Log: log,
	}
	reg := packet.NewRegistry(log)
	handler.RegisterAll(reg, deps)

	// 6. Create network server
	netServer, err := gonet.NewServer(cfg.Network.BindAddress, gonet.SessionConfig{
		InQueueSize:      cfg.Network.InQueueSize,
		OutQueueSize:     cfg.Network.OutQueueSize,
		PacketsPerSecond: cfg.Network.PacketsPerSecond,
		ReadTimeout:      cfg.Network.ReadTimeout,
		WriteTimeout:     cfg.Network.WriteTimeout,
	}, gonet.NewRouter(reg, log), log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", netServer.Addr().String()))
	fmt.Println()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return netServer.Serve(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Int("sessions", netServer.Sessions().Count()))
		netServer.Shutdown()
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// openStore picks the storage backend named by the config.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (persist.Store, error) {
	if cfg.Driver == "memory" {
		printOK("in-memory store (state is lost on exit)")
		return memstore.New(), nil
	}
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	db, err := persist.Open(openCtx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected, migrations applied")
	return db, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
