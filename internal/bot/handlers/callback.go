package handlers

import (
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/bot/keyboard"
	"github.com/Proton-105/mewfi-bot/internal/menu"
	"github.com/Proton-105/mewfi-bot/pkg/metrics"
)

// NewCallbackHandler handles menu button presses. The callback is acknowledged first; a
// single-chunk answer then replaces the pressed message, longer ones are sent as new messages.
func NewCallbackHandler(nav Navigator, kb Keyboards, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		ctx := Context(c)

		if err := c.Respond(); err != nil {
			log.WarnContext(ctx, "failed to acknowledge callback", slog.Any("error", err))
		}

		cb := c.Callback()
		if cb == nil {
			return nil
		}

		_, token, err := keyboard.DecodeCallback(cb.Data)
		if err != nil || token == "" {
			log.WarnContext(ctx, "malformed callback data", slog.String("data", cb.Data))
			return nil
		}

		audience := Audience(c)
		res := nav.Resolve(ctx, token, audience)
		markup := kb.Markup(res, audience)
		body := res.Body()

		if c.Message() != nil && editable(markup) && len(menu.SplitMessage(body, menu.MessageLimit)) == 1 && body != "" {
			opts := sendOptions(res.Kind)
			opts.ReplyMarkup = markup

			err := c.Edit(body, opts)
			if err == nil || errors.Is(err, telebot.ErrSameMessageContent) {
				metrics.RecordMessageSent(string(res.Kind))
				return nil
			}
			log.DebugContext(ctx, "edit failed, sending a new message", slog.Any("error", err))
		}

		return deliver(c, res.Kind, body, markup)
	}
}

// editable reports whether markup may be attached to an edited message; only inline keyboards can.
func editable(markup *telebot.ReplyMarkup) bool {
	return markup == nil || len(markup.ReplyKeyboard) == 0
}
