// Package importer ingests bank CSV exports into transactions.
package importer

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// Parser converts a bank CSV stream into Transactions. The int result
// counts rows dropped for parse failures; dropped rows are not an error.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, int, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry(log zerolog.Logger) *Registry {
	r := NewRegistry()
	r.Register(NewDKBParser(log))
	return r
}

// FilterByDateRange keeps transactions whose value date lies in
// [start, end], bounds inclusive. A zero bound is open.
func FilterByDateRange(txns []model.Transaction, start, end time.Time) []model.Transaction {
	var out []model.Transaction
	for _, txn := range txns {
		if !start.IsZero() && txn.ValueDate.Before(start) {
			continue
		}
		if !end.IsZero() && txn.ValueDate.After(end) {
			continue
		}
		out = append(out, txn)
	}
	return out
}
