// Package normalize provides canonical forms for account names and addresses
// used by duplicate matching
package normalize

import (
	"strings"
	"unicode"
)

// legalSuffixes are trailing business-entity tokens stripped from names
var legalSuffixes = map[string]bool{
	"inc":  true,
	"llc":  true,
	"ltd":  true,
	"corp": true,
	"co":   true,
	"pllc": true,
	"pc":   true,
	"lp":   true,
	"llp":  true,
}

// industryPhrases are generic industry terms that carry no identity signal.
// Ordered longest-first so compound phrases are removed before their parts.
var industryPhrases = []string{
	"center for reproductive medicine",
	"reproductive medicine associates",
	"reproductive endocrinology",
	"reproductive medicine",
	"fertility associates",
	"fertility specialists",
	"fertility center",
	"fertility clinic",
	"fertility care",
	"womens health",
	"medical group",
	"medical center",
	"health system",
	"ivf center",
	"fertility",
	"ob gyn",
	"obgyn",
}

// streetAbbreviations maps full address tokens to their canonical short form
var streetAbbreviations = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"boulevard": "blvd",
	"road":      "rd",
	"drive":     "dr",
	"lane":      "ln",
	"court":     "ct",
	"circle":    "cir",
	"place":     "pl",
	"highway":   "hwy",
	"parkway":   "pkwy",
	"terrace":   "ter",
	"suite":     "ste",
	"apartment": "apt",
	"floor":     "fl",
	"building":  "bldg",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
}

// Name normalizes an account or location name for similarity comparison.
// Lowercases, strips punctuation, removes trailing legal suffixes and generic
// industry phrases. Applying it twice yields the same result as applying it
// once.
func Name(raw string) string {
	s := stripPunctuation(strings.ToLower(raw))

	// strip trailing legal suffixes, repeatedly so "co llc" also collapses
	tokens := strings.Fields(s)
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	s = strings.Join(tokens, " ")

	// remove industry phrases on word boundaries, longest first
	for _, phrase := range industryPhrases {
		padded := " " + s + " "
		padded = strings.ReplaceAll(padded, " "+phrase+" ", " ")
		s = strings.TrimSpace(padded)
	}

	return strings.Join(strings.Fields(s), " ")
}

// AddressParts are the raw components of a postal address
type AddressParts struct {
	Line1 string
	City  string
	State string
	Zip   string
}

// Address builds a comparable address key from raw address parts. Components
// are lowercased, stripped of punctuation, and street words abbreviated, then
// joined with "|". Returns "" when the address carries fewer than 3
// significant characters, meaning it cannot be clustered on.
func Address(parts AddressParts) string {
	line1 := abbreviate(stripPunctuation(strings.ToLower(parts.Line1)))
	city := strings.Join(strings.Fields(stripPunctuation(strings.ToLower(parts.City))), " ")
	state := strings.Join(strings.Fields(stripPunctuation(strings.ToLower(parts.State))), " ")
	zip := zip5(parts.Zip)

	key := line1 + "|" + city + "|" + state + "|" + zip

	if significantChars(key) < 3 {
		return ""
	}
	return key
}

// abbreviate replaces full street words with canonical abbreviations token by token
func abbreviate(s string) string {
	tokens := strings.Fields(s)
	for i, token := range tokens {
		if abbr, ok := streetAbbreviations[token]; ok {
			tokens[i] = abbr
		}
	}
	return strings.Join(tokens, " ")
}

// stripPunctuation drops apostrophes and turns all other punctuation into
// spaces, then collapses whitespace
func stripPunctuation(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch {
		case r == '\'' || r == '’':
			// drop, so "women's" becomes "womens"
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
		default:
			result.WriteRune(' ')
		}
	}
	return strings.TrimSpace(strings.Join(strings.Fields(result.String()), " "))
}

// zip5 keeps the first five digits of a zip code
func zip5(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
			if result.Len() == 5 {
				break
			}
		}
	}
	return result.String()
}

func significantChars(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
