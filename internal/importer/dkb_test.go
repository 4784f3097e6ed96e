package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const dkbSample = `"Konto";"Girokonto DE12 3456 7890"
""
"Kontostand vom 31.01.2024:";"1.234,56 €"
""
"Buchungsdatum";"Wertstellung";"Status";"Zahlungspflichtige*r";"Zahlungsempfänger*in";"Verwendungszweck";"Umsatztyp";"IBAN";"Betrag (€)";"Gläubiger-ID";"Mandatsreferenz";"Kundenreferenz"
"15.01.24";"15.01.24";"Gebucht";"Max Mustermann";"REWE Markt GmbH";"Einkauf";"Ausgang";"DE02100100100006820101";"-50,00";"";"";""
"31.01.24";"31.01.24";"Gebucht";"Arbeitgeber AG";"Max Mustermann";"Gehalt Januar";"Eingang";"DE02120300000000202051";"2.000,00";"GL-123";"MND-7";"KDN-9"
"01.02.24";"01.02.24";"Vorgemerkt";"Max Mustermann";"Defekt";"Kaputte Zeile";"Ausgang";"";"abc";"";"";""
`

func TestDKBParse(t *testing.T) {
	p := NewDKBParser(zerolog.Nop())

	txns, skipped, err := p.Parse(strings.NewReader(dkbSample))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "the broken amount row is dropped, not fatal")
	require.Len(t, txns, 2)

	first := txns[0]
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.ValueDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.BookingDate)
	assert.Equal(t, "Gebucht", first.Status)
	assert.Equal(t, "Max Mustermann", first.Payer)
	assert.Equal(t, "REWE Markt GmbH", first.Recipient)
	assert.Equal(t, "Einkauf", first.Purpose)
	assert.Equal(t, "DE02100100100006820101", first.IBAN)
	assert.True(t, first.Amount.Equal(dec("-50")))

	second := txns[1]
	assert.True(t, second.Amount.Equal(dec("2000")), "thousands dot and decimal comma")
	assert.Equal(t, "GL-123", second.CreditorID)
	assert.Equal(t, "MND-7", second.MandateRef)
	assert.Equal(t, "KDN-9", second.CustomerRef)
}

func TestDKBParse_HeaderOnly(t *testing.T) {
	content := "a\nb\nc\nd\n" +
		`"Buchungsdatum";"Wertstellung";"Zahlungsempfänger*in";"Verwendungszweck";"Betrag (€)"` + "\n"
	p := NewDKBParser(zerolog.Nop())

	txns, skipped, err := p.Parse(strings.NewReader(content))
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Zero(t, skipped)
}

func TestDKBParse_MissingRequiredColumn(t *testing.T) {
	content := `"Buchungsdatum";"Zahlungsempfänger*in";"Verwendungszweck";"Betrag (€)"` + "\n"
	p := NewDKBParser(zerolog.Nop())
	p.SkipRows = 0

	_, _, err := p.Parse(strings.NewReader(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wertstellung")
}

func TestDKBParse_OptionalColumnsMayBeAbsent(t *testing.T) {
	content := `"Buchungsdatum";"Wertstellung";"Zahlungsempfänger*in";"Verwendungszweck";"Betrag (€)"` + "\n" +
		`"15.01.24";"15.01.24";"REWE";"Einkauf";"-9,99"` + "\n"
	p := NewDKBParser(zerolog.Nop())
	p.SkipRows = 0

	txns, skipped, err := p.Parse(strings.NewReader(content))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].IBAN)
	assert.Empty(t, txns[0].Status)
}

func TestDKBParse_BOMHeader(t *testing.T) {
	content := "\uFEFF" + `"Buchungsdatum";"Wertstellung";"Zahlungsempfänger*in";"Verwendungszweck";"Betrag (€)"` + "\r\n" +
		`"15.01.24";"15.01.24";"REWE";"Einkauf";"-9,99"` + "\r\n"
	p := NewDKBParser(zerolog.Nop())
	p.SkipRows = 0

	txns, _, err := p.Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, txns, 1)
}

func TestDKBParse_Latin1LegacyExport(t *testing.T) {
	// Legacy exports have no € anywhere: Latin-1 cannot encode it, the
	// amount column is spelled "Betrag (EUR)".
	content := `"Buchungsdatum";"Wertstellung";"Zahlungsempfänger*in";"Verwendungszweck";"Betrag (EUR)"` + "\n" +
		`"15.01.24";"15.01.24";"Bäckerei Müller";"Brötchen";"-3,50"` + "\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)

	p := NewDKBParser(zerolog.Nop())
	p.SkipRows = 0
	p.Encoding = "latin1"

	txns, _, err := p.Parse(strings.NewReader(string(encoded)))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Bäckerei Müller", txns[0].Recipient)
	assert.True(t, txns[0].Amount.Equal(dec("-3.5")))
}

func TestDKBParse_Windows1252(t *testing.T) {
	content := `"Buchungsdatum";"Wertstellung";"Zahlungsempfänger*in";"Verwendungszweck";"Betrag (€)"` + "\n" +
		`"15.01.24";"15.01.24";"Bäckerei Müller";"Brötchen";"-3,50 €"` + "\n"
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)

	p := NewDKBParser(zerolog.Nop())
	p.SkipRows = 0
	p.Encoding = "cp1252"

	txns, _, err := p.Parse(strings.NewReader(string(encoded)))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Bäckerei Müller", txns[0].Recipient)
}

func TestDKBParse_UnsupportedEncoding(t *testing.T) {
	p := NewDKBParser(zerolog.Nop())
	p.Encoding = "ebcdic"

	_, _, err := p.Parse(strings.NewReader(dkbSample))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ebcdic")
}

func TestParseGermanAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"-50,00", "-50"},
		{"2.000,00", "2000"},
		{"1.234,56 €", "1234.56"},
		{"0,01", "0.01"},
		{"1.234.567,89 €", "1234567.89"},
	}
	for _, tc := range cases {
		got, err := ParseGermanAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(dec(tc.want)), "%s -> %s, want %s", tc.in, got, tc.want)
	}
}

func TestParseGermanAmount_Invalid(t *testing.T) {
	_, err := ParseGermanAmount("abc")
	require.Error(t, err)

	_, err = ParseGermanAmount("")
	require.Error(t, err)
}
