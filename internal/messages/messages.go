// Package messages holds the fixed user-facing strings of the bot.
package messages

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is the set of fixed replies shown to users.
type Catalog struct {
	Errors struct {
		API             string `yaml:"api"`
		CommandNotFound string `yaml:"command_not_found"`
		General         string `yaml:"general"`
	} `yaml:"errors"`
	Menu struct {
		Greeting string `yaml:"greeting"`
		Help     string `yaml:"help"`
		Back     string `yaml:"back"`
	} `yaml:"menu"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultCatalog, &c); err != nil {
		panic(fmt.Sprintf("messages: embedded catalog is invalid: %v", err))
	}
	return &c
}

// Load returns the embedded catalog with any non-empty values from path layered on top.
// An empty path yields the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("messages: read file %s: %w", path, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return c, nil
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("messages: parse file %s: %w", path, err)
	}

	c.merge(&override)
	return c, nil
}

func (c *Catalog) merge(o *Catalog) {
	pick(&c.Errors.API, o.Errors.API)
	pick(&c.Errors.CommandNotFound, o.Errors.CommandNotFound)
	pick(&c.Errors.General, o.Errors.General)
	pick(&c.Menu.Greeting, o.Menu.Greeting)
	pick(&c.Menu.Help, o.Menu.Help)
	pick(&c.Menu.Back, o.Menu.Back)
}

func pick(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
