package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/mewfi-bot/internal/bot/keyboard"
)

func TestReplyKeyboard(t *testing.T) {
	markup := keyboard.ReplyKeyboard("Start", "About", "", "Help")

	assert.True(t, markup.ResizeKeyboard)

	expectedRows := []string{"Start", "About", "Help"}
	require.Len(t, markup.ReplyKeyboard, len(expectedRows))
	for i, text := range expectedRows {
		require.Len(t, markup.ReplyKeyboard[i], 1)
		assert.Equal(t, text, markup.ReplyKeyboard[i][0].Text)
	}
}
