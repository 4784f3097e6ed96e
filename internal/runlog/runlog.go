// Package runlog keeps an append-only CSV history of parse runs, one row
// per processed export file.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one row in the run log.
type Entry struct {
	RunID         string
	Timestamp     time.Time
	SourceFile    string
	Transactions  int
	Categorized   int
	Uncategorized int
	Skipped       int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
}

// Header is the CSV header for the run log.
const Header = "run_id,timestamp,source_file,transactions,categorized,uncategorized,skipped,total_income,total_expenses"

const (
	numFields        = 9
	colRunID         = 0
	colTimestamp     = 1
	colSourceFile    = 2
	colTransactions  = 3
	colCategorized   = 4
	colUncategorized = 5
	colSkipped       = 6
	colTotalIncome   = 7
	colTotalExpenses = 8
)

// NewEntry builds an Entry with a fresh run ID and the current time.
func NewEntry(sourceFile string) Entry {
	return Entry{
		RunID:      uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		SourceFile: sourceFile,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSourceFile] = e.SourceFile
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colCategorized] = strconv.Itoa(e.Categorized)
	row[colUncategorized] = strconv.Itoa(e.Uncategorized)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colTotalIncome] = e.TotalIncome.StringFixed(2)
	row[colTotalExpenses] = e.TotalExpenses.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 4)
	for i, col := range []int{colTransactions, colCategorized, colUncategorized, colSkipped} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	income, err := decimal.NewFromString(record[colTotalIncome])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total income %q: %w", record[colTotalIncome], err)
	}
	expenses, err := decimal.NewFromString(record[colTotalExpenses])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total expenses %q: %w", record[colTotalExpenses], err)
	}

	return Entry{
		RunID:         record[colRunID],
		Timestamp:     ts,
		SourceFile:    record[colSourceFile],
		Transactions:  counts[0],
		Categorized:   counts[1],
		Uncategorized: counts[2],
		Skipped:       counts[3],
		TotalIncome:   income,
		TotalExpenses: expenses,
	}, nil
}

// Append writes entries to the run log at path, creating the file and
// header if needed.
func Append(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating run log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from the run log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
