package menu

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/internal/messages"
	"github.com/Proton-105/mewfi-bot/internal/prices"
)

// Tokens with built-in behaviour.
const (
	StartToken = "/start"
	HelpToken  = "/help"
	PriceToken = "/pricexrp"
)

// Kind tells the transport how to render a Result.
type Kind string

const (
	KindMainMenu    Kind = "main_menu"
	KindSubmenu     Kind = "submenu"
	KindDescription Kind = "description"
	KindPrice       Kind = "price"
	KindNotFound    Kind = "not_found"
)

// Item is one selectable option of a menu.
type Item struct {
	Label string
	Token string
}

// Result is the outcome of resolving a token.
type Result struct {
	Kind Kind
	// Heading is set for menus, Text for everything else.
	Heading   string
	Text      string
	Items     []Item
	BackToken string
}

// Body returns the text to deliver for the result.
func (r Result) Body() string {
	if r.Kind == KindMainMenu || r.Kind == KindSubmenu {
		return r.Heading
	}
	return r.Text
}

// PriceFetcher returns live quotes for symbols.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, symbols []prices.Symbol) (prices.Quotes, error)
}

// PriceFormatter renders fetched quotes or a fetch failure.
type PriceFormatter interface {
	Format(quotes prices.Quotes, err error) string
}

// Navigator resolves tokens against a Table. It keeps no per-user state.
type Navigator struct {
	table     *Table
	fetcher   PriceFetcher
	formatter PriceFormatter
	catalog   *messages.Catalog
	log       *slog.Logger
	errors    *apperrors.Handler
}

// NewNavigator builds a Navigator over an immutable table.
func NewNavigator(table *Table, fetcher PriceFetcher, formatter PriceFormatter, catalog *messages.Catalog, log *slog.Logger) *Navigator {
	if catalog == nil {
		catalog = messages.Default()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Navigator{
		table:     table,
		fetcher:   fetcher,
		formatter: formatter,
		catalog:   catalog,
		log:       log,
	}
}

// WithErrorHandler reports unmatched tokens through h.
func (n *Navigator) WithErrorHandler(h *apperrors.Handler) *Navigator {
	n.errors = h
	return n
}

// Resolve maps a command or callback token to a navigation result for the audience.
func (n *Navigator) Resolve(ctx context.Context, token string, audience Context) Result {
	token = NormalizeToken(token)

	switch token {
	case StartToken:
		return n.MainMenu(audience)
	case PriceToken:
		return Result{Kind: KindPrice, Text: n.price(ctx)}
	}

	entry, ok := n.table.Lookup(token, audience)
	if !ok {
		return n.notFound(ctx, token, audience)
	}

	if entry.Level == LevelMain {
		if children := n.table.Children(entry.MainCategory, audience); len(children) > 0 {
			return Result{
				Kind:      KindSubmenu,
				Heading:   n.heading(entry),
				Items:     items(children),
				BackToken: StartToken,
			}
		}
	}

	return Result{Kind: KindDescription, Text: entry.Text()}
}

// Known reports whether token names a built-in command or a table entry in any context.
func (n *Navigator) Known(token string) bool {
	switch token = NormalizeToken(token); token {
	case StartToken, HelpToken, PriceToken:
		return true
	}
	return n.table != nil && n.table.Has(token)
}

// ResolveText maps free text typed or tapped on a reply keyboard. Slash commands go through
// Resolve; anything else is matched against button labels.
func (n *Navigator) ResolveText(ctx context.Context, text string, audience Context) Result {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return n.Resolve(ctx, text, audience)
	}

	if text == n.catalog.Menu.Back {
		return n.MainMenu(audience)
	}

	if entry, ok := n.table.LookupLabel(text, audience); ok {
		return n.Resolve(ctx, entry.Command, audience)
	}

	return n.notFound(ctx, text, audience)
}

func (n *Navigator) notFound(ctx context.Context, token string, audience Context) Result {
	err := apperrors.NewNotFoundError(token)
	if n.errors != nil {
		n.errors.Handle(ctx, err)
	} else {
		n.log.DebugContext(ctx, "token not found", slog.Any("error", err), slog.String("context", string(audience)))
	}

	return Result{Kind: KindNotFound, Text: n.catalog.Errors.CommandNotFound}
}

// MainMenu lists every main entry of the audience in table order.
func (n *Navigator) MainMenu(audience Context) Result {
	heading := n.catalog.Menu.Greeting
	if entry, ok := n.table.Lookup(StartToken, audience); ok && entry.Description != "" {
		heading = entry.Text()
	}

	return Result{
		Kind:    KindMainMenu,
		Heading: heading,
		Items:   items(n.table.MainEntries(audience)),
	}
}

func (n *Navigator) price(ctx context.Context) string {
	if n.fetcher == nil || n.formatter == nil {
		return n.catalog.Errors.API
	}

	quotes, err := n.fetcher.FetchPrices(ctx, prices.DefaultSymbols)
	return n.formatter.Format(quotes, err)
}

func (n *Navigator) heading(entry Entry) string {
	if entry.Description != "" {
		return entry.Text()
	}
	return entry.Label()
}

func items(entries []Entry) []Item {
	out := make([]Item, 0, len(entries))
	for _, e := range entries {
		label := e.Label()
		if label == "" {
			label = e.Command
		}
		out = append(out, Item{Label: label, Token: e.Command})
	}
	return out
}

// NormalizeToken trims a command, dropping arguments and a trailing bot mention ("/cmd@MyBot").
func NormalizeToken(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}

	token := fields[0]
	if strings.HasPrefix(token, "/") {
		if at := strings.IndexByte(token, '@'); at > 0 {
			token = token[:at]
		}
	}
	return token
}
