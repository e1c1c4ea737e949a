package handlers

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/menu"
)

// NewMenuHandler answers table commands, unknown slash commands and reply keyboard taps.
// Free text in groups is ignored.
func NewMenuHandler(nav Navigator, kb Keyboards) Handler {
	return func(c telebot.Context) error {
		text := strings.TrimSpace(c.Text())
		audience := Audience(c)

		if text == "" {
			return nil
		}
		if audience == menu.ContextGroup && !strings.HasPrefix(text, "/") {
			return nil
		}

		res := nav.ResolveText(Context(c), text, audience)
		return deliver(c, res.Kind, res.Body(), kb.Markup(res, audience))
	}
}

// NewHelpHandler sends the help description followed by the main menu keyboard.
// fallback is used when the table has no help entry for the audience.
func NewHelpHandler(nav Navigator, kb Keyboards, fallback string) Handler {
	return func(c telebot.Context) error {
		audience := Audience(c)
		ctx := Context(c)

		text := fallback
		if res := nav.Resolve(ctx, menu.HelpToken, audience); res.Kind != menu.KindNotFound && res.Body() != "" {
			text = res.Body()
		}

		return deliver(c, menu.KindDescription, text, kb.Markup(nav.MainMenu(audience), audience))
	}
}
