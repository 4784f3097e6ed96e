// Package assignments maintains the manual assignment overlay: explicit
// (date, recipient, purpose) -> category pins that outrank every matching
// rule. Referential integrity against the category store is enforced on add
// and on load, never silently repaired.
package assignments

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MarcSchuh/DKBParsing/internal/model"
	"github.com/MarcSchuh/DKBParsing/internal/storage"
)

// CategoryChecker tests category names against the category store.
type CategoryChecker interface {
	Exists(name string) bool
	Names() []string
}

// UnknownCategoryError reports a manual assignment referencing a category
// that does not exist.
type UnknownCategoryError struct {
	Category string
	Known    []string
}

func (e *UnknownCategoryError) Error() string {
	known := "none"
	if len(e.Known) > 0 {
		known = strings.Join(e.Known, ", ")
	}
	return fmt.Sprintf("manual assignment references unknown category %q (known categories: %s)", e.Category, known)
}

// Store holds manual assignments in document order.
type Store struct {
	path       string
	log        zerolog.Logger
	categories CategoryChecker
	records    []model.Assignment
}

// NewStore creates a store persisting to path and hydrates it when the file
// already exists. A missing file is not an error; the store starts empty.
func NewStore(path string, categories CategoryChecker, log zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: log, categories: categories}
	if _, err := os.Stat(path); err != nil {
		s.log.Info().Str("path", path).Msg("no manual assignment document yet, starting empty")
		return s, nil
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of recorded assignments.
func (s *Store) Len() int { return len(s.records) }

// All returns the assignments in document order. Callers must not modify
// the returned slice.
func (s *Store) All() []model.Assignment { return s.records }

// Add records a manual assignment. The referenced category must exist;
// otherwise nothing is recorded and an *UnknownCategoryError is returned.
func (s *Store) Add(a model.Assignment) (storage.Outcome, error) {
	if !s.categories.Exists(a.Category) {
		return storage.Outcome{}, &UnknownCategoryError{Category: a.Category, Known: s.categories.Names()}
	}
	s.records = append(s.records, a)
	s.log.Info().
		Str("date", a.Date).
		Str("recipient", a.Recipient).
		Str("category", a.Category).
		Msg("added manual assignment")
	return s.persist(), nil
}

// Remove deletes every assignment matching the exact identity triple. No
// match is a logged no-op.
func (s *Store) Remove(date, recipient, purpose string) storage.Outcome {
	var kept []model.Assignment
	removed := 0
	for _, a := range s.records {
		if a.Date == date && a.Recipient == recipient && a.Purpose == purpose {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	if removed == 0 {
		s.log.Warn().
			Str("date", date).
			Str("recipient", recipient).
			Str("purpose", purpose).
			Msg("no matching manual assignment to remove")
		return storage.Outcome{}
	}
	s.records = kept
	s.log.Info().Int("removed", removed).Msg("removed manual assignments")
	return s.persist()
}

// document is the persisted JSON shape.
type document struct {
	ManualAssignments []recordDoc `json:"manual_assignments"`
}

type recordDoc struct {
	Date      string   `json:"date"`
	Recipient string   `json:"recipient"`
	Purpose   string   `json:"purpose"`
	Category  string   `json:"category"`
	Amount    *float64 `json:"amount,omitempty"`
}

func recordFor(a model.Assignment) recordDoc {
	r := recordDoc{
		Date:      a.Date,
		Recipient: a.Recipient,
		Purpose:   a.Purpose,
		Category:  a.Category,
	}
	if a.Amount != nil {
		f, _ := a.Amount.Float64()
		r.Amount = &f
	}
	return r
}

func (r recordDoc) assignment() model.Assignment {
	a := model.Assignment{
		Date:      r.Date,
		Recipient: r.Recipient,
		Purpose:   r.Purpose,
		Category:  r.Category,
	}
	if r.Amount != nil {
		amt := decimal.NewFromFloat(*r.Amount)
		a.Amount = &amt
	}
	return a
}

// Save writes the full document.
func (s *Store) Save() error {
	doc := document{ManualAssignments: make([]recordDoc, len(s.records))}
	for i, a := range s.records {
		doc.ManualAssignments[i] = recordFor(a)
	}
	return storage.SaveJSON(s.path, doc)
}

// Load replaces the store contents with the document at the store's path.
// Every record must reference an existing category: the first violation
// aborts the load with an *UnknownCategoryError and the previous contents
// stay in place.
func (s *Store) Load() error {
	var doc document
	if err := storage.LoadJSON(s.path, &doc); err != nil {
		return err
	}

	records := make([]model.Assignment, 0, len(doc.ManualAssignments))
	for _, r := range doc.ManualAssignments {
		if !s.categories.Exists(r.Category) {
			return &UnknownCategoryError{Category: r.Category, Known: s.categories.Names()}
		}
		records = append(records, r.assignment())
	}

	s.records = records
	s.log.Info().Int("assignments", len(records)).Str("path", s.path).Msg("loaded manual assignments")
	return nil
}

// persist saves after a successful mutation. A failed save is logged and
// reported as a warning; the in-memory change stands.
func (s *Store) persist() storage.Outcome {
	if err := s.Save(); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("auto-save failed, in-memory state is ahead of disk")
		return storage.Outcome{Applied: true, Warning: err.Error()}
	}
	return storage.Outcome{Applied: true, Persisted: true}
}
