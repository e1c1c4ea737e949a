package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// ReplyKeyboard builds a resizable reply keyboard with one label per row. Empty labels are skipped.
func ReplyKeyboard(labels ...string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	rows := make([]telebot.Row, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		rows = append(rows, markup.Row(markup.Text(label)))
	}

	markup.Reply(rows...)
	return markup
}
