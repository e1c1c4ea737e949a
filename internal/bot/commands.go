package bot

import (
	"github.com/Proton-105/mewfi-bot/internal/bot/keyboard"
	"github.com/Proton-105/mewfi-bot/internal/menu"
)

// Command constants for Telegram bot commands.
const (
	CommandStart = menu.StartToken
	CommandHelp  = menu.HelpToken
	CommandPrice = menu.PriceToken
)

// Callback prefix constants for inline button interactions.
const (
	CallbackMenu = keyboard.MenuUnique
)
