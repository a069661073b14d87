// Package quotes holds the fallback daily quote table.
package quotes

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed quotes.yaml
var quotesYAML []byte

type table struct {
	Quotes []string `yaml:"quotes"`
}

// Table is an ordered list of fallback quotes
type Table struct {
	quotes []string
}

// Load parses a YAML document of the form `quotes: [...]`
func Load(data []byte) (*Table, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse quotes: %w", err)
	}
	if len(t.Quotes) == 0 {
		return nil, fmt.Errorf("quote table is empty")
	}
	return &Table{quotes: t.Quotes}, nil
}

// Embedded returns the built-in table
func Embedded() *Table {
	t, err := Load(quotesYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of quotes
func (t *Table) Len() int {
	return len(t.quotes)
}

// Index returns the stable table index for a date and couple: a 31-bit
// rolling hash (h*31 + c, wrapping at 32 bits) of date+coupleID, made
// non-negative, modulo the table length
func (t *Table) Index(date, coupleID string) int {
	var h int32
	for _, c := range date + coupleID {
		h = (h << 5) - h + int32(c)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return int(n % int64(len(t.quotes)))
}

// Pick returns the fallback quote for a date and couple
func (t *Table) Pick(date, coupleID string) string {
	return t.quotes[t.Index(date, coupleID)]
}
