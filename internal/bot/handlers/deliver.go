package handlers

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/internal/menu"
	"github.com/Proton-105/mewfi-bot/pkg/metrics"
)

// sender is the part of telebot.Context used for delivery.
type sender interface {
	Send(what interface{}, opts ...interface{}) error
}

// deliver sends text in chunks that fit a Telegram message. The markup rides on the last chunk.
// Failures come back as transport errors.
func deliver(c sender, kind menu.Kind, text string, markup *telebot.ReplyMarkup) error {
	chunks := nonEmpty(menu.SplitMessage(text, menu.MessageLimit))
	if len(chunks) == 0 {
		return nil
	}

	for i, chunk := range chunks {
		opts := sendOptions(kind)
		if i == len(chunks)-1 && markup != nil {
			opts.ReplyMarkup = markup
		}

		if err := c.Send(chunk, opts); err != nil {
			return apperrors.NewTransportError("send", err)
		}
		metrics.RecordMessageSent(string(kind))
	}

	return nil
}

func sendOptions(kind menu.Kind) *telebot.SendOptions {
	opts := &telebot.SendOptions{}
	if kind == menu.KindPrice {
		opts.ParseMode = telebot.ModeMarkdown
	}
	return opts
}

func nonEmpty(chunks []string) []string {
	out := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	return out
}
