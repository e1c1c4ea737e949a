package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/bot/handlers"
	errors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/pkg/logger"
)

// ContextMiddleware gives every update a context with a fresh correlation id.
func ContextMiddleware(parent context.Context) handlers.Middleware {
	if parent == nil {
		parent = context.Background()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if c != nil {
				handlers.WithContext(c, logger.WithCorrelationID(parent))
			}
			return next(c)
		}
	}
}

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx := handlers.Context(c)
					log.ErrorContext(ctx, "panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := ""
					if errHandler != nil {
						userMsg = errHandler.Handle(ctx, fmt.Errorf("panic recovered: %v", r))
					}

					if c != nil && userMsg != "" {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.ErrorContext(ctx, "failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
// Transport failures are only reported: the chat is unreachable anyway.
func ErrorHandlingMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			ctx := handlers.Context(c)

			userMsg := ""
			if errHandler != nil {
				userMsg = errHandler.Handle(ctx, err)
			}

			if errors.HasCode(err, errors.CodeTransport) {
				return nil
			}

			if c != nil && userMsg != "" {
				if sendErr := c.Send(userMsg); sendErr != nil {
					log.WarnContext(ctx, "failed to notify user about error", slog.Any("error", sendErr))
				}
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			ctx := handlers.Context(c)

			userID := int64(0)
			chatType := ""
			action := ""
			if c != nil {
				if c.Sender() != nil {
					userID = c.Sender().ID
				}
				if c.Chat() != nil {
					chatType = string(c.Chat().Type)
				}
				if cb := c.Callback(); cb != nil {
					action = cb.Data
				} else {
					action = c.Text()
				}
			}

			attrs := []any{
				slog.Int64("user_id", userID),
				slog.String("chat_type", chatType),
				slog.String("action", action),
				slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
			}

			log.DebugContext(ctx, "handling update", attrs...)
			err := next(c)
			log.InfoContext(ctx, "handled update", append(attrs,
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)...)

			return err
		}
	}
}
