// Package suggest models the optional category-suggestion service at its
// boundary. The core never talks to the network; it only prepares the
// payload such a service consumes and guards any caller-supplied
// implementation with a hard timeout.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// DefaultTimeout bounds a suggestion call.
const DefaultTimeout = 120 * time.Second

// Request carries what a suggestion service needs: the manual assignments
// as labeled examples and the transactions no rule matched.
type Request struct {
	ManualAssignments []model.Assignment
	Uncategorized     []model.Transaction
}

// Suggester produces free-form category suggestions for a request. Calls
// may block; wrap implementations with WithTimeout.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (string, error)
}

type payloadDoc struct {
	ManualAssignments []assignmentPayload  `json:"manual_assignments"`
	Uncategorized     []transactionPayload `json:"uncategorized_transactions"`
}

type assignmentPayload struct {
	Date      string   `json:"date"`
	Recipient string   `json:"recipient"`
	Purpose   string   `json:"purpose"`
	Category  string   `json:"category"`
	Amount    *float64 `json:"amount,omitempty"`
}

type transactionPayload struct {
	Date      string  `json:"date"`
	Recipient string  `json:"recipient"`
	Purpose   string  `json:"purpose"`
	IBAN      string  `json:"iban,omitempty"`
	Amount    float64 `json:"amount"`
}

// BuildPayload renders a request as the JSON document the suggestion
// service consumes.
func BuildPayload(req Request) ([]byte, error) {
	doc := payloadDoc{
		ManualAssignments: make([]assignmentPayload, 0, len(req.ManualAssignments)),
		Uncategorized:     make([]transactionPayload, 0, len(req.Uncategorized)),
	}
	for _, a := range req.ManualAssignments {
		p := assignmentPayload{
			Date:      a.Date,
			Recipient: a.Recipient,
			Purpose:   a.Purpose,
			Category:  a.Category,
		}
		if a.Amount != nil {
			amount, _ := a.Amount.Float64()
			p.Amount = &amount
		}
		doc.ManualAssignments = append(doc.ManualAssignments, p)
	}
	for _, txn := range req.Uncategorized {
		amount, _ := txn.Amount.Float64()
		doc.Uncategorized = append(doc.Uncategorized, transactionPayload{
			Date:      txn.DateKey(),
			Recipient: txn.Recipient,
			Purpose:   txn.Purpose,
			IBAN:      txn.IBAN,
			Amount:    amount,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling suggestion payload: %w", err)
	}
	return buf.Bytes(), nil
}

type timeoutSuggester struct {
	inner   Suggester
	timeout time.Duration
}

// WithTimeout wraps a Suggester so every call fails closed after the given
// duration, even when the inner implementation ignores its context.
func WithTimeout(s Suggester, timeout time.Duration) Suggester {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &timeoutSuggester{inner: s, timeout: timeout}
}

func (s *timeoutSuggester) Suggest(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := s.inner.Suggest(ctx, req)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", fmt.Errorf("suggestion call abandoned after %s: %w", s.timeout, ctx.Err())
	}
}
