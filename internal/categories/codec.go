package categories

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// categoryDoc is the persisted JSON shape of a single category entry.
type categoryDoc struct {
	DisplayName       string   `json:"display_name"`
	SearchStrings     []string `json:"search_strings"`
	RegexPatterns     []string `json:"regex_patterns"`
	IBANPatterns      []string `json:"iban_patterns,omitempty"`
	ExpectedMaxAmount *float64 `json:"expected_max_amount,omitempty"`
}

func docFor(c *model.Category) categoryDoc {
	doc := categoryDoc{
		DisplayName:   c.DisplayName,
		SearchStrings: c.SearchStrings,
		RegexPatterns: c.RegexPatterns,
	}
	if doc.SearchStrings == nil {
		doc.SearchStrings = []string{}
	}
	if doc.RegexPatterns == nil {
		doc.RegexPatterns = []string{}
	}
	if len(c.IBANPatterns) > 0 {
		doc.IBANPatterns = c.IBANPatterns
	}
	if c.ExpectedMaxAmount != nil {
		f, _ := c.ExpectedMaxAmount.Float64()
		doc.ExpectedMaxAmount = &f
	}
	return doc
}

func (d categoryDoc) category(name string) *model.Category {
	c := model.NewCategory(name, d.DisplayName)
	if d.SearchStrings != nil {
		c.SearchStrings = d.SearchStrings
	}
	if d.RegexPatterns != nil {
		c.RegexPatterns = d.RegexPatterns
	}
	if d.IBANPatterns != nil {
		c.IBANPatterns = d.IBANPatterns
	}
	if d.ExpectedMaxAmount != nil {
		amt := decimal.NewFromFloat(*d.ExpectedMaxAmount)
		c.ExpectedMaxAmount = &amt
	}
	return c
}

// encodeDocument renders categories as a JSON object whose key order is the
// store's iteration order. encoding/json cannot do this for a map, so the
// object is written by hand.
func encodeDocument(cats []*model.Category) ([]byte, error) {
	if len(cats) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, c := range cats {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		name, err := encodeValue(c.Name, "", "")
		if err != nil {
			return nil, fmt.Errorf("encoding category name %q: %w", c.Name, err)
		}
		buf.Write(name)
		buf.WriteString(": ")
		entry, err := encodeValue(docFor(c), "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding category %q: %w", c.Name, err)
		}
		buf.Write(entry)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// encodeValue marshals v with indentation but without HTML escaping, so
// names like "Café & Co" stay readable in the document.
func encodeValue(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// decodeDocument reads the object token by token so the on-disk key order
// becomes the iteration order.
func decodeDocument(data []byte) ([]*model.Category, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document root must be a JSON object, got %v", tok)
	}

	var cats []*model.Category
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading category name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("category name must be a string, got %v", keyTok)
		}

		var doc categoryDoc
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding category %q: %w", name, err)
		}
		cats = append(cats, doc.category(name))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading document end: %w", err)
	}
	return cats, nil
}
