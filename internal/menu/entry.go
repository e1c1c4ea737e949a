// Package menu loads the menu table and resolves chat tokens against it.
package menu

import (
	"fmt"
	"strings"
)

// Level is the depth of an entry in the menu tree.
type Level string

const (
	LevelMain    Level = "main"
	LevelSubmenu Level = "submenu"
)

// Context is the audience an entry is visible to.
type Context string

const (
	ContextPrivate Context = "private"
	ContextGroup   Context = "group"
)

// Contexts lists every audience context.
var Contexts = []Context{ContextPrivate, ContextGroup}

// Entry is one row of the menu table.
type Entry struct {
	Command      string
	Level        Level
	MainCategory string
	SubmenuItem  string
	Description  string
	Context      Context
}

// Label returns the button text of the entry.
func (e Entry) Label() string {
	if e.Level == LevelSubmenu {
		return e.SubmenuItem
	}
	return e.MainCategory
}

// Text returns the description with literal escaped newlines turned into line breaks.
func (e Entry) Text() string {
	return Unescape(e.Description)
}

// Unescape replaces the two-character sequence `\n` with a newline.
func Unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func parseLevel(raw string) (Level, error) {
	switch Level(strings.ToLower(raw)) {
	case LevelMain:
		return LevelMain, nil
	case LevelSubmenu:
		return LevelSubmenu, nil
	default:
		return "", fmt.Errorf("unknown menu level %q", raw)
	}
}

func parseContext(raw string) (Context, error) {
	switch Context(strings.ToLower(raw)) {
	case ContextPrivate:
		return ContextPrivate, nil
	case ContextGroup:
		return ContextGroup, nil
	default:
		return "", fmt.Errorf("unknown context %q", raw)
	}
}
