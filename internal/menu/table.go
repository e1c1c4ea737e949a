package menu

import (
	"encoding/csv"
	stdErrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/Proton-105/mewfi-bot/internal/errors"
)

const (
	columnCommand      = "command"
	columnMenuLevel    = "menu level"
	columnMainCategory = "main category"
	columnSubmenuItem  = "submenu item"
	columnDescription  = "description"
	columnContext      = "context"
)

var requiredColumns = []string{
	columnCommand,
	columnMenuLevel,
	columnMainCategory,
	columnSubmenuItem,
	columnDescription,
	columnContext,
}

type key struct {
	value   string
	context Context
}

// Table is the immutable, indexed menu loaded at startup. It is safe for concurrent readers.
type Table struct {
	entries  []Entry
	byKey    map[key]int
	children map[key][]int
	byLabel  map[key]int
	main     map[Context][]int
	problems []string
}

// Load reads the menu table from a CSV file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	defer f.Close()

	t, err := parse(f)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}

	return t, nil
}

// Parse reads a menu table from CSV data.
func Parse(r io.Reader) (*Table, error) {
	t, err := parse(r)
	if err != nil {
		return nil, apperrors.NewLoadError("input", err)
	}
	return t, nil
}

func parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if stdErrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty menu source")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if stdErrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		field := func(name string) string {
			if idx := columns[name]; idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		entry := Entry{
			Command:      field(columnCommand),
			MainCategory: field(columnMainCategory),
			SubmenuItem:  field(columnSubmenuItem),
			Description:  field(columnDescription),
		}
		if entry.Command == "" {
			return nil, fmt.Errorf("line %d: empty command", line)
		}
		if entry.Level, err = parseLevel(field(columnMenuLevel)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if entry.Context, err = parseContext(field(columnContext)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		entries = append(entries, entry)
	}

	return NewTable(entries)
}

// NewTable indexes entries, preserving their order. A duplicate (command, context) pair is an error.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries:  append([]Entry(nil), entries...),
		byKey:    make(map[key]int, len(entries)),
		children: make(map[key][]int),
		byLabel:  make(map[key]int, len(entries)),
		main:     make(map[Context][]int, len(Contexts)),
	}

	mainCategories := make(map[key]bool)
	for i, e := range t.entries {
		k := key{value: e.Command, context: e.Context}
		if _, dup := t.byKey[k]; dup {
			return nil, fmt.Errorf("duplicate command %q for context %q", e.Command, e.Context)
		}
		t.byKey[k] = i

		if label := e.Label(); label != "" {
			lk := key{value: label, context: e.Context}
			if _, taken := t.byLabel[lk]; taken {
				t.problems = append(t.problems, fmt.Sprintf("label %q is used more than once for context %q; keeping the first", label, e.Context))
			} else {
				t.byLabel[lk] = i
			}
		}

		if e.Level == LevelMain {
			t.main[e.Context] = append(t.main[e.Context], i)
			mainCategories[key{value: e.MainCategory, context: e.Context}] = true
			continue
		}

		ck := key{value: e.MainCategory, context: e.Context}
		t.children[ck] = append(t.children[ck], i)
	}

	for i, e := range t.entries {
		if e.Level != LevelSubmenu {
			continue
		}
		if !mainCategories[key{value: e.MainCategory, context: e.Context}] {
			t.problems = append(t.problems, fmt.Sprintf("submenu %q (row %d) has no main entry %q for context %q", e.Command, i+1, e.MainCategory, e.Context))
		}
	}

	return t, nil
}

// Lookup returns the entry for a command in the given context.
func (t *Table) Lookup(command string, ctx Context) (Entry, bool) {
	idx, ok := t.byKey[key{value: command, context: ctx}]
	if !ok {
		return Entry{}, false
	}
	return t.entries[idx], true
}

// Has reports whether command exists for any context.
func (t *Table) Has(command string) bool {
	for _, ctx := range Contexts {
		if _, ok := t.byKey[key{value: command, context: ctx}]; ok {
			return true
		}
	}
	return false
}

// LookupLabel returns the entry whose button label is label in the given context.
func (t *Table) LookupLabel(label string, ctx Context) (Entry, bool) {
	idx, ok := t.byLabel[key{value: strings.TrimSpace(label), context: ctx}]
	if !ok {
		return Entry{}, false
	}
	return t.entries[idx], true
}

// MainEntries returns the main-level entries for ctx in table order.
func (t *Table) MainEntries(ctx Context) []Entry {
	return t.collect(t.main[ctx])
}

// Children returns the submenu entries of a main category for ctx in table order.
func (t *Table) Children(category string, ctx Context) []Entry {
	return t.collect(t.children[key{value: category, context: ctx}])
}

// Entries returns a copy of all entries in table order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// CountByContext returns the number of entries visible to ctx.
func (t *Table) CountByContext(ctx Context) int {
	n := 0
	for _, e := range t.entries {
		if e.Context == ctx {
			n++
		}
	}
	return n
}

// Problems lists data issues found while indexing, such as dangling submenus.
func (t *Table) Problems() []string {
	return append([]string(nil), t.problems...)
}

func (t *Table) collect(indexes []int) []Entry {
	if len(indexes) == 0 {
		return nil
	}
	out := make([]Entry, len(indexes))
	for i, idx := range indexes {
		out[i] = t.entries[idx]
	}
	return out
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
