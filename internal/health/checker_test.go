package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/menu"
)

func TestChecker(t *testing.T) {
	c := NewChecker(nil)
	c.AddCheck("ok", CheckFunc(func(context.Context) error { return nil }))
	c.AddCheck("broken", CheckFunc(func(context.Context) error { return errors.New("down") }))
	c.AddCheck("", CheckFunc(func(context.Context) error { return nil }))
	c.AddCheck("nil", nil)

	assert.Equal(t, map[string]string{"ok": StatusOK, "broken": "down"}, c.Check(context.Background()))

	err := c.Err(context.Background())
	require.Error(t, err)
	assert.Equal(t, "broken: down", err.Error())

	assert.NoError(t, NewChecker(nil).Err(context.Background()))
}

func TestTelegramChecker(t *testing.T) {
	assert.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))
	assert.Error(t, NewTelegramChecker(&telebot.Bot{}).HealthCheck(context.Background()))
	assert.NoError(t, NewTelegramChecker(&telebot.Bot{Me: &telebot.User{Username: "MewFiBot"}}).HealthCheck(context.Background()))
}

func TestMenuChecker(t *testing.T) {
	assert.Error(t, NewMenuChecker(nil).HealthCheck(context.Background()))

	orphans, err := menu.NewTable([]menu.Entry{
		{Command: "/lost", Level: menu.LevelSubmenu, MainCategory: "Ghost", Context: menu.ContextGroup},
	})
	require.NoError(t, err)
	assert.ErrorContains(t, NewMenuChecker(orphans).HealthCheck(context.Background()), "no main entries")

	privateOnly, err := menu.NewTable([]menu.Entry{
		{Command: "/start", Level: menu.LevelMain, MainCategory: "Start", Context: menu.ContextPrivate},
	})
	require.NoError(t, err)
	assert.NoError(t, NewMenuChecker(privateOnly).HealthCheck(context.Background()))
}
