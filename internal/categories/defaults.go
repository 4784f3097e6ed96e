package categories

import "github.com/MarcSchuh/DKBParsing/internal/model"

// DefaultSet returns a starter category set for a German checking account.
// Names are the stable keys; display names are what lands in the sheets.
func DefaultSet() []*model.Category {
	return []*model.Category{
		{
			Name:          "einkommen",
			DisplayName:   "Einkommen",
			SearchStrings: []string{"gehalt", "lohn", "bezuege"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "lebensmittel",
			DisplayName:   "Lebensmittel",
			SearchStrings: []string{"rewe", "edeka", "aldi", "lidl", "netto", "kaufland", "penny"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "drogerie",
			DisplayName:   "Drogerie",
			SearchStrings: []string{"dm ", "rossmann", "mueller"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "miete",
			DisplayName:   "Miete & Nebenkosten",
			SearchStrings: []string{"miete", "nebenkosten", "hausgeld"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "strom",
			DisplayName:   "Strom & Gas",
			SearchStrings: []string{"stadtwerke", "vattenfall", "eon", "abschlag"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "transport",
			DisplayName:   "Transport",
			SearchStrings: []string{"bvg", "deutsche bahn", "db vertrieb", "tankstelle", "aral", "shell"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "versicherungen",
			DisplayName:   "Versicherungen",
			SearchStrings: []string{"versicherung", "allianz", "huk"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "restaurants",
			DisplayName:   "Restaurants & Cafés",
			SearchStrings: []string{"restaurant", "lieferando", "cafe"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "freizeit",
			DisplayName:   "Freizeit",
			SearchStrings: []string{"kino", "spotify", "netflix"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
		{
			Name:          "bargeld",
			DisplayName:   "Bargeld",
			SearchStrings: []string{"bargeldauszahlung", "geldautomat", "atm"},
			RegexPatterns: []string{},
			IBANPatterns:  []string{},
		},
	}
}
