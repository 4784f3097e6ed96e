// Package categories maintains the ordered category store backed by a flat
// JSON document. Iteration order is load order then insertion order, and
// every mutation attempts a save of the full document. A failed save never
// undoes the mutation; it comes back as an Outcome warning.
package categories

import (
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/MarcSchuh/DKBParsing/internal/model"
	"github.com/MarcSchuh/DKBParsing/internal/storage"
)

// InvalidPatternError reports a regex rule that failed to compile when it
// was added.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Store holds categories in a stable iteration order. Overwriting Add keeps
// a category's original position.
type Store struct {
	path  string
	log   zerolog.Logger
	order []*model.Category
	index map[string]*model.Category
}

// NewStore creates a store persisting to path and hydrates it when the file
// already exists. A missing file is not an error; the store starts empty.
func NewStore(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: log, index: make(map[string]*model.Category)}
	if _, err := os.Stat(path); err != nil {
		s.log.Info().Str("path", path).Msg("no category document yet, starting empty")
		return s, nil
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of categories.
func (s *Store) Len() int { return len(s.order) }

// All returns the categories in iteration order. Callers must not modify
// the returned slice.
func (s *Store) All() []*model.Category { return s.order }

// Get returns a category by name.
func (s *Store) Get(name string) (*model.Category, bool) {
	c, ok := s.index[name]
	return c, ok
}

// Exists reports whether a category name exists.
func (s *Store) Exists(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the category names in iteration order.
func (s *Store) Names() []string {
	names := make([]string, len(s.order))
	for i, c := range s.order {
		names[i] = c.Name
	}
	return names
}

// Add inserts a category or, when the name is already present, replaces it
// in its original position. Overwrites are logged as warnings, never
// rejected.
func (s *Store) Add(c *model.Category) storage.Outcome {
	normalize(c)
	if existing, ok := s.index[c.Name]; ok {
		s.log.Warn().Str("category", c.Name).Msg("category already exists, overwriting")
		s.replace(existing, c)
	} else {
		s.order = append(s.order, c)
	}
	s.index[c.Name] = c
	s.log.Info().Str("category", c.Name).Msg("added category")
	return s.persist()
}

// Remove deletes a category by name. Removing an absent category is a
// logged no-op.
func (s *Store) Remove(name string) storage.Outcome {
	existing, ok := s.index[name]
	if !ok {
		s.log.Warn().Str("category", name).Strs("known", s.Names()).Msg("category not found, nothing to remove")
		return storage.Outcome{}
	}
	delete(s.index, name)
	for i, cur := range s.order {
		if cur == existing {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Info().Str("category", name).Msg("removed category")
	return s.persist()
}

// AddSearchString appends a literal search string to a category. Unknown
// categories and duplicate strings are no-ops.
func (s *Store) AddSearchString(name, search string) storage.Outcome {
	c, ok := s.index[name]
	if !ok {
		s.warnUnknown(name, "cannot add search string")
		return storage.Outcome{}
	}
	if contains(c.SearchStrings, search) {
		s.log.Debug().Str("category", name).Str("search", search).Msg("search string already present")
		return storage.Outcome{}
	}
	c.SearchStrings = append(c.SearchStrings, search)
	s.log.Info().Str("category", name).Str("search", search).Msg("added search string")
	return s.persist()
}

// RemoveSearchString deletes a literal search string from a category.
// Unknown categories and absent strings are no-ops.
func (s *Store) RemoveSearchString(name, search string) storage.Outcome {
	c, ok := s.index[name]
	if !ok {
		s.warnUnknown(name, "cannot remove search string")
		return storage.Outcome{}
	}
	trimmed, removed := remove(c.SearchStrings, search)
	if !removed {
		s.log.Warn().Str("category", name).Str("search", search).Msg("search string not found")
		return storage.Outcome{}
	}
	c.SearchStrings = trimmed
	s.log.Info().Str("category", name).Str("search", search).Msg("removed search string")
	return s.persist()
}

// AddRegexPattern appends a regex rule after checking that it compiles. A
// rejected pattern comes back as an *InvalidPatternError and is not stored.
func (s *Store) AddRegexPattern(name, pattern string) (storage.Outcome, error) {
	c, ok := s.index[name]
	if !ok {
		s.warnUnknown(name, "cannot add regex pattern")
		return storage.Outcome{}, nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return storage.Outcome{}, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	if contains(c.RegexPatterns, pattern) {
		s.log.Debug().Str("category", name).Str("pattern", pattern).Msg("regex pattern already present")
		return storage.Outcome{}, nil
	}
	c.RegexPatterns = append(c.RegexPatterns, pattern)
	s.log.Info().Str("category", name).Str("pattern", pattern).Msg("added regex pattern")
	return s.persist(), nil
}

// RemoveRegexPattern deletes a regex rule from a category.
func (s *Store) RemoveRegexPattern(name, pattern string) storage.Outcome {
	c, ok := s.index[name]
	if !ok {
		s.warnUnknown(name, "cannot remove regex pattern")
		return storage.Outcome{}
	}
	trimmed, removed := remove(c.RegexPatterns, pattern)
	if !removed {
		s.log.Warn().Str("category", name).Str("pattern", pattern).Msg("regex pattern not found")
		return storage.Outcome{}
	}
	c.RegexPatterns = trimmed
	s.log.Info().Str("category", name).Str("pattern", pattern).Msg("removed regex pattern")
	return s.persist()
}

// AddIBANPattern appends an IBAN rule. No compile check: a pattern that is
// not a valid regex still works as an exact IBAN.
func (s *Store) AddIBANPattern(name, pattern string) storage.Outcome {
	c, ok := s.index[name]
	if !ok {
		s.warnUnknown(name, "cannot add IBAN pattern")
		return storage.Outcome{}
	}
	if contains(c.IBANPatterns, pattern) {
		s.log.Debug().Str("category", name).Str("pattern", pattern).Msg("IBAN pattern already present")
		return storage.Outcome{}
	}
	c.IBANPatterns = append(c.IBANPatterns, pattern)
	s.log.Info().Str("category", name).Str("pattern", pattern).Msg("added IBAN pattern")
	return s.persist()
}

// RemoveIBANPattern deletes an IBAN rule from a category.
func (s *Store) RemoveIBANPattern(name, pattern string) storage.Outcome {
	c, ok := s.index[name]
	if !ok {
		s.warnUnknown(name, "cannot remove IBAN pattern")
		return storage.Outcome{}
	}
	trimmed, removed := remove(c.IBANPatterns, pattern)
	if !removed {
		s.log.Warn().Str("category", name).Str("pattern", pattern).Msg("IBAN pattern not found")
		return storage.Outcome{}
	}
	c.IBANPatterns = trimmed
	s.log.Info().Str("category", name).Str("pattern", pattern).Msg("removed IBAN pattern")
	return s.persist()
}

// Save writes the full document in iteration order.
func (s *Store) Save() error {
	data, err := encodeDocument(s.order)
	if err != nil {
		return &storage.SaveError{Path: s.path, Err: err}
	}
	return storage.WriteFile(s.path, data)
}

// Load replaces the store contents with the document at the store's path.
func (s *Store) Load() error {
	data, err := storage.ReadFile(s.path)
	if err != nil {
		return err
	}
	cats, err := decodeDocument(data)
	if err != nil {
		return &storage.LoadError{Path: s.path, Err: err}
	}

	s.order = nil
	s.index = make(map[string]*model.Category, len(cats))
	for _, c := range cats {
		normalize(c)
		if existing, ok := s.index[c.Name]; ok {
			// Duplicate key in the document: last value wins, first position kept.
			s.replace(existing, c)
		} else {
			s.order = append(s.order, c)
		}
		s.index[c.Name] = c
	}
	s.log.Info().Int("categories", len(s.order)).Str("path", s.path).Msg("loaded categories")
	return nil
}

func (s *Store) replace(old, repl *model.Category) {
	for i, cur := range s.order {
		if cur == old {
			s.order[i] = repl
			return
		}
	}
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

func (s *Store) warnUnknown(name, msg string) {
	s.log.Warn().Str("category", name).Strs("known", s.Names()).Msg(msg)
}

func normalize(c *model.Category) {
	if c.DisplayName == "" {
		c.DisplayName = c.Name
	}
	if c.SearchStrings == nil {
		c.SearchStrings = []string{}
	}
	if c.RegexPatterns == nil {
		c.RegexPatterns = []string{}
	}
	if c.IBANPatterns == nil {
		c.IBANPatterns = []string{}
	}
}

func contains(list []string, v string) bool {
	for _, cur := range list {
		if cur == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) ([]string, bool) {
	for i, cur := range list {
		if cur == v {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
