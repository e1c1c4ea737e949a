package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/menu"
)

// Builder renders navigation results into the keyboard kind each audience expects:
// reply keyboards in private chats, inline keyboards in groups.
type Builder struct {
	backLabel string
	log       *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(backLabel string, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{backLabel: backLabel, log: log}
}

// Markup returns the keyboard for res, or nil when the result carries no options.
func (b *Builder) Markup(res menu.Result, audience menu.Context) *telebot.ReplyMarkup {
	if res.Kind != menu.KindMainMenu && res.Kind != menu.KindSubmenu {
		return nil
	}
	if len(res.Items) == 0 && res.BackToken == "" {
		return nil
	}

	if audience == menu.ContextPrivate {
		return b.reply(res)
	}
	return b.inline(res)
}

func (b *Builder) reply(res menu.Result) *telebot.ReplyMarkup {
	labels := make([]string, 0, len(res.Items)+1)
	for _, item := range res.Items {
		labels = append(labels, item.Label)
	}
	if res.BackToken != "" {
		labels = append(labels, b.backLabel)
	}
	return ReplyKeyboard(labels...)
}

func (b *Builder) inline(res menu.Result) *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()
	for _, item := range res.Items {
		kb.AddRow(InlineButton{Text: item.Label, Unique: MenuUnique, Data: item.Token})
	}
	if res.BackToken != "" {
		kb.AddRow(InlineButton{Text: b.backLabel, Unique: MenuUnique, Data: res.BackToken})
	}

	markup, err := kb.Build()
	if err != nil {
		b.log.Warn("menu buttons skipped", slog.Any("error", err))
	}
	return markup
}
