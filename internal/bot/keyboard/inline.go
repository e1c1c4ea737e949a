package keyboard

import (
	"errors"
	"fmt"

	telebot "gopkg.in/telebot.v3"
)

// InlineButton represents a lightweight inline keyboard button definition used by the builder.
type InlineButton struct {
	Text   string
	Unique string // Identifier that differentiates callback handlers.
	Data   string // Payload that will be encoded into callback data.
}

// InlineKeyboardBuilder accumulates rows of InlineButton definitions before rendering telebot markup.
type InlineKeyboardBuilder struct {
	rows [][]InlineButton
}

// NewInlineKeyboard creates an empty builder.
func NewInlineKeyboard() *InlineKeyboardBuilder {
	return &InlineKeyboardBuilder{rows: make([][]InlineButton, 0)}
}

// AddRow appends a new row made of custom InlineButton definitions.
func (b *InlineKeyboardBuilder) AddRow(buttons ...InlineButton) *InlineKeyboardBuilder {
	if len(buttons) == 0 {
		return b
	}

	row := make([]InlineButton, len(buttons))
	copy(row, buttons)
	b.rows = append(b.rows, row)
	return b
}

// Build renders the markup. Buttons whose callback data exceeds the Telegram limit are left
// out; the returned error lists them while the markup still carries every other button.
//
// Callback data is sent raw (telebot's Unique field stays empty) so updates reach the
// generic callback handler as "unique:data".
func (b *InlineKeyboardBuilder) Build() (*telebot.ReplyMarkup, error) {
	markup := &telebot.ReplyMarkup{InlineKeyboard: make([][]telebot.InlineButton, 0, len(b.rows))}

	var errs []error
	for _, row := range b.rows {
		rendered := make([]telebot.InlineButton, 0, len(row))
		for _, btn := range row {
			data, err := EncodeCallback(btn.Unique, btn.Data)
			if err != nil {
				errs = append(errs, fmt.Errorf("button %q: %w", btn.Text, err))
				continue
			}
			rendered = append(rendered, telebot.InlineButton{Text: btn.Text, Data: data})
		}
		if len(rendered) > 0 {
			markup.InlineKeyboard = append(markup.InlineKeyboard, rendered)
		}
	}

	return markup, errors.Join(errs...)
}
