package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/commands"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway/discord"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/service"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store/drivers/file"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/web"
	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

var ErrMissingToken = errors.New("app: DISCORD_TOKEN is required")

// Application encapsulates one bot session with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	session *discordgo.Session

	// Services
	trackerService *service.TrackerService
	claimService   *service.ClaimService
	ledgerService  *service.LedgerService
	poolService    *service.PoolService

	// Presentation
	router *commands.Router
	web    *web.Server
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "doorkeeper",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}
	if err := app.initSession(); err != nil {
		return nil, err
	}
	app.initServices()
	app.initHandlers()

	app.web = web.NewServer(cfg.Port, app.logger)

	return app, nil
}

// Run opens the gateway session and blocks until shutdown is requested. It
// returns nil on a clean signal shutdown; any other return is a fatal session
// fault the supervisor should restart.
func (app *Application) Run() error {
	app.web.Start()

	if err := app.session.Open(); err != nil {
		return fmt.Errorf("open gateway session: %w", err)
	}

	app.logger.Info("doorkeeper running", "version", BuildVersion)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	app.logger.Info("shutdown signal received", "signal", sig)

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown gracefully closes the session, the keep-alive server and the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down doorkeeper...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.session.Close(); err != nil {
		app.logger.Error("error closing gateway session", "error", err)
	}

	if err := app.web.Shutdown(ctx); err != nil {
		app.logger.Error("error shutting down keep-alive server", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("doorkeeper stopped")
	return nil
}

func (app *Application) initStore() error {
	db, err := file.NewStore(app.cfg.DataDir, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	app.db = db
	return nil
}

func (app *Application) initSession() error {
	session, err := discordgo.New("Bot " + app.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to create gateway session: %w", err)
	}

	// Member joins and invite events are privileged; both intents must also
	// be enabled in the developer portal.
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildInvites

	app.session = session
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	gw := discord.New(app.session)

	app.trackerService = &service.TrackerService{
		Store:   app.db,
		Gateway: gw,
		Cache:   service.NewInviteCache(),
	}
	app.claimService = &service.ClaimService{
		Store:          app.db,
		Gateway:        gw,
		AuditChannelID: app.cfg.AuditChannelID,
	}
	app.ledgerService = &service.LedgerService{Store: app.db}
	app.poolService = &service.PoolService{Store: app.db}

	app.router = commands.NewRouter(
		app.ledgerService,
		app.claimService,
		app.poolService,
		app.logger,
		app.cfg.ClaimLimit,
	)
}
