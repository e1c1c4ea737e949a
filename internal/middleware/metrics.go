package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/bot/handlers"
	"github.com/Proton-105/mewfi-bot/internal/bot/keyboard"
	"github.com/Proton-105/mewfi-bot/internal/menu"
	"github.com/Proton-105/mewfi-bot/pkg/metrics"
)

// UnknownCommandLabel is recorded for every command token outside the known set.
const UnknownCommandLabel = "unknown_command"

// CommandSet reports whether a normalized token is a command the bot serves.
type CommandSet interface {
	Known(token string) bool
}

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
// Only tokens in known get their own command label.
func Metrics(known CommandSet) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}

			metrics.RecordCommand(commandLabel(c, known), status, time.Since(start))

			return err
		}
	}
}

// commandLabel keeps label cardinality bounded: free text collapses into "text" and
// tokens outside known into UnknownCommandLabel.
func commandLabel(c telebot.Context, known CommandSet) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		if _, token, err := keyboard.DecodeCallback(cb.Data); err == nil && token != "" {
			return knownOrUnknown(menu.NormalizeToken(token), known)
		}
		return "callback"
	}

	text := strings.TrimSpace(c.Text())
	switch {
	case text == "":
		return "unknown"
	case strings.HasPrefix(text, "/"):
		return knownOrUnknown(menu.NormalizeToken(text), known)
	default:
		return "text"
	}
}

func knownOrUnknown(token string, known CommandSet) string {
	if known == nil || !known.Known(token) {
		return UnknownCommandLabel
	}
	return token
}
