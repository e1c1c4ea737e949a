package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// NewStartHandler greets with the optional welcome animation and then shows the main menu.
// A failed animation does not prevent the menu from being sent.
func NewStartHandler(nav Navigator, kb Keyboards, animationURL string, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		audience := Audience(c)

		if animationURL != "" {
			animation := &telebot.Animation{File: telebot.FromURL(animationURL)}
			if err := c.Send(animation); err != nil {
				log.WarnContext(Context(c), "failed to send welcome animation", slog.Any("error", err))
			}
		}

		res := nav.MainMenu(audience)
		return deliver(c, res.Kind, res.Body(), kb.Markup(res, audience))
	}
}
