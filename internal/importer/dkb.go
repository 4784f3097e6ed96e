package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// Column headers of a DKB checking account export.
const (
	dkbColBookingDate = "Buchungsdatum"
	dkbColValueDate   = "Wertstellung"
	dkbColStatus      = "Status"
	dkbColPayer       = "Zahlungspflichtige*r"
	dkbColRecipient   = "Zahlungsempfänger*in"
	dkbColPurpose     = "Verwendungszweck"
	dkbColIBAN        = "IBAN"
	dkbColAmount      = "Betrag (€)"
	dkbColAmountEUR   = "Betrag (EUR)" // legacy Latin-1 exports, no € in that charset
	dkbColCreditorID  = "Gläubiger-ID"
	dkbColMandateRef  = "Mandatsreferenz"
	dkbColCustomerRef = "Kundenreferenz"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DKBParser parses DKB (Deutsche Kreditbank) checking account CSV exports.
// The export carries a preamble before the header row, uses ";" as the
// delimiter, German decimal commas, and a "€" suffix on amounts. Columns
// are resolved by header name, so column order and extra columns do not
// matter.
type DKBParser struct {
	Delimiter rune   // field delimiter, default ';'
	SkipRows  int    // preamble lines before the header, default 4
	Encoding  string // utf-8, latin1/iso-8859-1, or windows-1252/cp1252

	log zerolog.Logger
}

// NewDKBParser returns a parser for the standard DKB export dialect.
func NewDKBParser(log zerolog.Logger) *DKBParser {
	return &DKBParser{Delimiter: ';', SkipRows: 4, Encoding: "utf-8", log: log}
}

// Format returns the parser name.
func (p *DKBParser) Format() string { return "dkb" }

// Parse reads a DKB CSV export. Rows that fail to parse are dropped with a
// warning and counted, never fatal; only a broken header or an unsupported
// encoding aborts.
func (p *DKBParser) Parse(r io.Reader) ([]model.Transaction, int, error) {
	decoded, err := p.decode(r)
	if err != nil {
		return nil, 0, err
	}

	br := bufio.NewReader(decoded)
	// A leading UTF-8 BOM would break quote parsing of the header row.
	if lead, err := br.Peek(3); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(3)
	}
	for i := 0; i < p.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("skipping preamble: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = p.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var txns []model.Transaction
	skipped := 0
	line := p.SkipRows + 1
	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.log.Warn().Int("line", line).Err(err).Msg("dropping unreadable CSV row")
			skipped++
			continue
		}
		txn, err := p.parseRow(cols, rec)
		if err != nil {
			p.log.Warn().Int("line", line).Err(err).Msg("dropping unparseable CSV row")
			skipped++
			continue
		}
		txns = append(txns, txn)
	}

	if skipped > 0 {
		p.log.Warn().Int("skipped", skipped).Int("parsed", len(txns)).Msg("some CSV rows could not be parsed")
	}
	return txns, skipped, nil
}

// decode wraps r to translate the configured source encoding to UTF-8.
func (p *DKBParser) decode(r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(p.Encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", p.Encoding)
	}
}

// dkbColumns holds the header-resolved field indexes. Optional columns are
// -1 when absent.
type dkbColumns struct {
	bookingDate int
	valueDate   int
	status      int
	payer       int
	recipient   int
	purpose     int
	iban        int
	amount      int
	creditorID  int
	mandateRef  int
	customerRef int
}

func mapColumns(header []string) (dkbColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	required := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("CSV header is missing column %q", name)
		}
		return i, nil
	}
	optional := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	var cols dkbColumns
	var err error
	if cols.bookingDate, err = required(dkbColBookingDate); err != nil {
		return dkbColumns{}, err
	}
	if cols.valueDate, err = required(dkbColValueDate); err != nil {
		return dkbColumns{}, err
	}
	if cols.recipient, err = required(dkbColRecipient); err != nil {
		return dkbColumns{}, err
	}
	if cols.purpose, err = required(dkbColPurpose); err != nil {
		return dkbColumns{}, err
	}
	if i, ok := index[dkbColAmount]; ok {
		cols.amount = i
	} else if i, ok := index[dkbColAmountEUR]; ok {
		cols.amount = i
	} else {
		return dkbColumns{}, fmt.Errorf("CSV header is missing column %q", dkbColAmount)
	}
	cols.status = optional(dkbColStatus)
	cols.payer = optional(dkbColPayer)
	cols.iban = optional(dkbColIBAN)
	cols.creditorID = optional(dkbColCreditorID)
	cols.mandateRef = optional(dkbColMandateRef)
	cols.customerRef = optional(dkbColCustomerRef)
	return cols, nil
}

func (p *DKBParser) parseRow(cols dkbColumns, rec []string) (model.Transaction, error) {
	booking, err := time.Parse(model.DateKeyFormat, field(rec, cols.bookingDate))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing booking date %q: %w", field(rec, cols.bookingDate), err)
	}
	value, err := time.Parse(model.DateKeyFormat, field(rec, cols.valueDate))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing value date %q: %w", field(rec, cols.valueDate), err)
	}
	amount, err := ParseGermanAmount(field(rec, cols.amount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", field(rec, cols.amount), err)
	}

	return model.Transaction{
		BookingDate: booking,
		ValueDate:   value,
		Status:      field(rec, cols.status),
		Payer:       field(rec, cols.payer),
		Recipient:   field(rec, cols.recipient),
		Purpose:     field(rec, cols.purpose),
		IBAN:        field(rec, cols.iban),
		Amount:      amount,
		CreditorID:  field(rec, cols.creditorID),
		MandateRef:  field(rec, cols.mandateRef),
		CustomerRef: field(rec, cols.customerRef),
	}, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ParseGermanAmount converts a German formatted amount like "1.234,56 €"
// into a decimal: thousands dots dropped, comma becomes the decimal point,
// currency suffix ignored.
func ParseGermanAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	cleaned = strings.TrimSpace(cleaned)
	return decimal.NewFromString(cleaned)
}
