package bot

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/bot/handlers"
	"github.com/Proton-105/mewfi-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/internal/messages"
	"github.com/Proton-105/mewfi-bot/internal/middleware"
	"github.com/Proton-105/mewfi-bot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.BotConfig
	router     *Router
	keyboard   *keyboard.Builder
	errHandler *errors.Handler
}

// New builds a telegram bot instance configured according to the application settings.
// ctx is the parent of every per-update context.
func New(
	ctx context.Context,
	cfg config.BotConfig,
	log *slog.Logger,
	nav handlers.Navigator,
	catalog *messages.Catalog,
	errHandler *errors.Handler,
) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}
	if catalog == nil {
		catalog = messages.Default()
	}

	settings := telebot.Settings{
		Token:  cfg.Token,
		Poller: poller(cfg),
		OnError: func(err error, c telebot.Context) {
			log.Error("telegram update failed", slog.Any("error", errors.NewTransportError("update", err)))
		},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, errors.NewTransportError("initialize telebot", err)
	}

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		router:     NewRouter(log),
		keyboard:   keyboard.NewBuilder(catalog.Menu.Back, log),
		errHandler: errHandler,
	}

	b.setupRouter(ctx, nav, catalog)
	b.registerTelebotHandlers()

	return b, nil
}

func poller(cfg config.BotConfig) telebot.Poller {
	if cfg.Mode == config.BotModeWebhook {
		webhook := &telebot.Webhook{Listen: cfg.WebhookListen}
		if cfg.WebhookURL != "" {
			webhook.Endpoint = &telebot.WebhookEndpoint{PublicURL: cfg.WebhookURL}
		}
		return webhook
	}

	return &telebot.LongPoller{Timeout: cfg.Timeout}
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.log.Info("starting telegram bot", slog.String("mode", b.cfg.Mode), slog.String("username", b.username()))
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) username() string {
	if b.telebot == nil || b.telebot.Me == nil {
		return ""
	}
	return b.telebot.Me.Username
}

func (b *Bot) setupRouter(ctx context.Context, nav handlers.Navigator, catalog *messages.Catalog) {
	b.router.Use(ContextMiddleware(ctx))
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.log, b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics(nav))

	menuHandler := handlers.NewMenuHandler(nav, b.keyboard)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(nav, b.keyboard, b.cfg.WelcomeAnimation, b.log))
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(nav, b.keyboard, catalog.Menu.Help))
	b.router.RegisterCommand(CommandPrice, menuHandler)
	b.router.RegisterCallback(CallbackMenu, handlers.NewCallbackHandler(nav, b.keyboard, b.log))
	b.router.SetDefault(menuHandler)
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
