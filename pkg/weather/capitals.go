package weather

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Static reference tables, read-only from process start. Country names and
// result messages are in Portuguese, matching the data set.
var southAmericanCapitals = map[string]string{
	"Argentina":       "Buenos Aires",
	"Bolivia":         "La Paz",
	"Brasil":          "Brasília",
	"Chile":           "Santiago",
	"Colômbia":        "Bogotá",
	"Equador":         "Quito",
	"Guiana":          "Georgetown",
	"Guiana Francesa": "Caiena",
	"Paraguai":        "Assunção",
	"Peru":            "Lima",
	"Suriname":        "Paramaribo",
	"Uruguai":         "Montevidéu",
	"Venezuela":       "Caracas",
}

var usStateCapitals = map[string]string{
	"AL": "Montgomery", "AK": "Juneau", "AZ": "Phoenix", "AR": "Little Rock",
	"CA": "Sacramento", "CO": "Denver", "CT": "Hartford", "DE": "Dover",
	"FL": "Tallahassee", "GA": "Atlanta", "HI": "Honolulu", "ID": "Boise",
	"IL": "Springfield", "IN": "Indianapolis", "IA": "Des Moines", "KS": "Topeka",
	"KY": "Frankfort", "LA": "Baton Rouge", "ME": "Augusta", "MD": "Annapolis",
	"MA": "Boston", "MI": "Lansing", "MN": "Saint Paul", "MS": "Jackson",
	"MO": "Jefferson City", "MT": "Helena", "NE": "Lincoln", "NV": "Carson City",
	"NH": "Concord", "NJ": "Trenton", "NM": "Santa Fe", "NY": "Albany",
	"NC": "Raleigh", "ND": "Bismarck", "OH": "Columbus", "OK": "Oklahoma City",
	"OR": "Salem", "PA": "Harrisburg", "RI": "Providence", "SC": "Columbia",
	"SD": "Pierre", "TN": "Nashville", "TX": "Austin", "UT": "Salt Lake City",
	"VT": "Montpelier", "VA": "Richmond", "WA": "Olympia", "WV": "Charleston",
	"WI": "Madison", "WY": "Cheyenne",
}

// SouthAmericanCapital looks up the capital of a South American country.
// Input is trimmed and title-cased; a miss reports the full sorted key set.
func SouthAmericanCapital(country string) string {
	key := titleCase(country)
	capital, ok := southAmericanCapitals[key]
	if !ok {
		return fmt.Sprintf("País não encontrado. Países disponíveis: %s",
			strings.Join(sortedKeys(southAmericanCapitals), ", "))
	}
	return fmt.Sprintf("A capital de %s é %s", key, capital)
}

// USStateCapital looks up the capital of a US state by its two-letter code.
// Input is trimmed and upper-cased; a miss reports the full sorted key set.
func USStateCapital(state string) string {
	key := strings.ToUpper(strings.TrimSpace(state))
	capital, ok := usStateCapitals[key]
	if !ok {
		return fmt.Sprintf("Estado não encontrado. Estados disponíveis: %s",
			strings.Join(sortedKeys(usStateCapitals), ", "))
	}
	return fmt.Sprintf("A capital de %s é %s", key, capital)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// titleCase trims and capitalizes the first letter of each word, so
// "guiana francesa" and " BRASIL " both hit their table keys.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
