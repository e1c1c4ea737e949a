package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/menu"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Navigator resolves tokens and tapped labels to navigation results.
type Navigator interface {
	Resolve(ctx context.Context, token string, audience menu.Context) menu.Result
	ResolveText(ctx context.Context, text string, audience menu.Context) menu.Result
	MainMenu(audience menu.Context) menu.Result
	Known(token string) bool
}

// Keyboards renders the markup for a result.
type Keyboards interface {
	Markup(res menu.Result, audience menu.Context) *telebot.ReplyMarkup
}

const contextKey = "request_ctx"

// WithContext stores ctx on the update so handlers further down the chain can reach it.
func WithContext(c telebot.Context, ctx context.Context) {
	c.Set(contextKey, ctx)
}

// Context returns the request context stored by WithContext, or context.Background.
func Context(c telebot.Context) context.Context {
	if c != nil {
		if ctx, ok := c.Get(contextKey).(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}

// Audience maps the chat type to the menu context: private chats are private, everything else is a group.
func Audience(c telebot.Context) menu.Context {
	if c != nil {
		if chat := c.Chat(); chat != nil && chat.Type == telebot.ChatPrivate {
			return menu.ContextPrivate
		}
	}
	return menu.ContextGroup
}
