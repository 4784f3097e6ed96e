// Package match categorizes bank transactions: manual assignments first,
// then per-category IBAN and text rules in store order, first match wins.
package match

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MarcSchuh/DKBParsing/internal/assignments"
	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// evidenceManual marks a hit from the manual assignment overlay.
const evidenceManual = "manual assignment"

// CategorySource is the slice of the category store the engine reads.
type CategorySource interface {
	All() []*model.Category
	Get(name string) (*model.Category, bool)
	Names() []string
}

// AssignmentSource is the slice of the manual assignment store the engine
// reads.
type AssignmentSource interface {
	All() []model.Assignment
}

// Engine resolves categories for transactions. Matching never mutates the
// sources, so one Engine is safe for concurrent use.
type Engine struct {
	categories  CategorySource
	assignments AssignmentSource
	log         zerolog.Logger

	// Workers sets the concurrency of CategorizeAll. Values below 2 run
	// sequentially.
	Workers int
}

// NewEngine creates an Engine over the two stores.
func NewEngine(categories CategorySource, assignments AssignmentSource, log zerolog.Logger) *Engine {
	return &Engine{categories: categories, assignments: assignments, log: log}
}

// Categorize resolves the category for a single transaction and returns it
// with the evidence that matched, or (nil, nil) when nothing matched. The
// only error is a manual assignment referencing a missing category; rules
// never error.
func (e *Engine) Categorize(txn model.Transaction) (*model.Category, []string, error) {
	manual, err := e.checkManual(txn)
	if err != nil {
		return nil, nil, err
	}
	if manual != nil {
		return manual, []string{evidenceManual}, nil
	}

	hay := haystack(txn)
	hasIBAN := strings.TrimSpace(txn.IBAN) != ""

	for _, c := range e.categories.All() {
		textMatches := e.textMatches(c, hay)

		if len(c.IBANPatterns) > 0 && hasIBAN {
			// Combined mode: the IBAN narrows, text confirms. One side
			// alone is not a match.
			ibanMatches := e.ibanMatches(c, txn.IBAN)
			if len(ibanMatches) > 0 && len(textMatches) > 0 {
				return c, append(ibanMatches, textMatches...), nil
			}
			continue
		}

		if len(textMatches) > 0 {
			return c, textMatches, nil
		}
	}
	return nil, nil, nil
}

// checkManual returns the category pinned by the first matching manual
// assignment. A pin to a category that no longer exists is an
// *assignments.UnknownCategoryError, never a silent fall-through.
func (e *Engine) checkManual(txn model.Transaction) (*model.Category, error) {
	for _, a := range e.assignments.All() {
		if !a.Matches(txn) {
			continue
		}
		cat, ok := e.categories.Get(a.Category)
		if !ok {
			return nil, &assignments.UnknownCategoryError{Category: a.Category, Known: e.categories.Names()}
		}
		e.log.Debug().Str("category", a.Category).Str("recipient", txn.Recipient).Msg("manual assignment matched")
		return cat, nil
	}
	return nil, nil
}

// textMatches collects the category's search strings and regex rules that
// hit the haystack. Search strings are folded at match time and reported in
// their stored casing; regex rules are compiled case-insensitive and
// reported with a "regex: " prefix. A rule that fails to compile is skipped.
func (e *Engine) textMatches(c *model.Category, hay string) []string {
	var matches []string
	for _, s := range c.SearchStrings {
		if strings.Contains(hay, strings.ToLower(s)) {
			matches = append(matches, s)
		}
	}
	for _, p := range c.RegexPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			e.log.Debug().Str("category", c.Name).Str("pattern", p).Err(err).Msg("skipping regex pattern that does not compile")
			continue
		}
		if re.MatchString(hay) {
			matches = append(matches, "regex: "+p)
		}
	}
	return matches
}

// ibanMatches collects the category's IBAN rules that hit the transaction
// IBAN: equal ignoring case, or matching as a case-insensitive regex.
// Reported with an "iban: " prefix.
func (e *Engine) ibanMatches(c *model.Category, iban string) []string {
	var matches []string
	for _, p := range c.IBANPatterns {
		if strings.EqualFold(p, iban) {
			matches = append(matches, "iban: "+p)
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			e.log.Debug().Str("category", c.Name).Str("pattern", p).Err(err).Msg("skipping IBAN pattern that does not compile")
			continue
		}
		if re.MatchString(iban) {
			matches = append(matches, "iban: "+p)
		}
	}
	return matches
}

// haystack builds the lowercase text the rules search in: value date,
// recipient, purpose, and the IBAN when present.
func haystack(txn model.Transaction) string {
	parts := []string{txn.DateKey(), txn.Recipient, txn.Purpose}
	if strings.TrimSpace(txn.IBAN) != "" {
		parts = append(parts, txn.IBAN)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
