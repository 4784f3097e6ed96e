// Package storage reads and writes the flat JSON documents that back the
// category and manual assignment stores.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadError reports a failure to read or decode a persisted document.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failure to write a persisted document.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Outcome reports the effect of a mutating store operation. Applied is the
// in-memory change, Persisted the follow-up document rewrite. Warning
// carries a persistence failure that did not undo the mutation; no-op
// operations return a zero Outcome.
type Outcome struct {
	Applied   bool
	Persisted bool
	Warning   string
}

// ReadFile reads a document. Failures come back as *LoadError.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return data, nil
}

// WriteFile writes a document, creating parent directories as needed.
// Failures come back as *SaveError.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

// LoadJSON reads path and unmarshals it into v.
func LoadJSON(path string, v any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}

// SaveJSON writes v to path with two-space indentation. HTML escaping is
// off: the documents are hand-edited, so "&" must stay "&".
func SaveJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return WriteFile(path, buf.Bytes())
}
