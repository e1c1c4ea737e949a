package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gopkg.in/telebot.v3"

	"github.com/Proton-105/mewfi-bot/internal/menu"
)

// StatusOK is reported for passing checks.
const StatusOK = "OK"

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a function to Checkable.
type CheckFunc func(ctx context.Context) error

// HealthCheck implements Checkable.
func (f CheckFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// Checker aggregates health checks for multiple components.
type Checker struct {
	log    *slog.Logger
	checks map[string]Checkable
}

// NewChecker instantiates a Checker with the provided logger.
func NewChecker(log *slog.Logger) *Checker {
	return &Checker{
		log:    log,
		checks: make(map[string]Checkable),
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}
	c.checks[name] = check
}

// Check runs all registered health checks and returns their statuses.
func (c *Checker) Check(ctx context.Context) map[string]string {
	results := make(map[string]string, len(c.checks))

	for name, check := range c.checks {
		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			if c.log != nil {
				c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			}
			continue
		}

		results[name] = StatusOK
	}

	return results
}

// Err runs all checks and joins the failures, in component order. It is nil when everything passes.
func (c *Checker) Err(ctx context.Context) error {
	results := c.Check(ctx)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if status := results[name]; status != StatusOK {
			errs = append(errs, fmt.Errorf("%s: %s", name, status))
		}
	}
	return errors.Join(errs...)
}

// TelegramChecker verifies that the Telegram bot API is reachable.
type TelegramChecker struct {
	bot *telebot.Bot
}

// NewTelegramChecker constructs a TelegramChecker.
func NewTelegramChecker(bot *telebot.Bot) *TelegramChecker {
	return &TelegramChecker{bot: bot}
}

// HealthCheck ensures the underlying bot is initialized and reachable.
func (c *TelegramChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.bot == nil || c.bot.Me == nil {
		return errors.New("telegram bot is not initialized or disconnected")
	}
	return nil
}

// MenuChecker reports the loaded menu as unhealthy when no audience has a main menu.
type MenuChecker struct {
	table *menu.Table
}

// NewMenuChecker constructs a MenuChecker.
func NewMenuChecker(table *menu.Table) *MenuChecker {
	return &MenuChecker{table: table}
}

// HealthCheck implements Checkable.
func (c *MenuChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.table == nil || c.table.Len() == 0 {
		return errors.New("menu table is empty")
	}

	for _, audience := range menu.Contexts {
		if len(c.table.MainEntries(audience)) > 0 {
			return nil
		}
	}
	return errors.New("menu table has no main entries")
}
