package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and collapses whitespace",
			input:    "  Acme   Health  ",
			expected: "acme health",
		},
		{
			name:     "strips legal suffix",
			input:    "Acme Fertility Center, LLC",
			expected: "acme",
		},
		{
			name:     "strips stacked legal suffixes",
			input:    "Acme Co LLC",
			expected: "acme",
		},
		{
			name:     "strips industry phrase",
			input:    "Piedmont Reproductive Medicine",
			expected: "piedmont",
		},
		{
			name:     "strips compound phrase before its parts",
			input:    "Boston Center for Reproductive Medicine",
			expected: "boston",
		},
		{
			name:     "handles apostrophes and slashes",
			input:    "Women's Health OB/GYN of Dallas",
			expected: "of dallas",
		},
		{
			name:     "keeps distinguishing tokens",
			input:    "Seattle Fertility Clinic North",
			expected: "seattle north",
		},
		{
			name:     "legal suffix not stripped mid-name",
			input:    "Co Op Health Partners",
			expected: "co op health partners",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Name(tt.input))
		})
	}
}

func TestNameIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Fertility Center, LLC",
		"Women's Health OB/GYN of Dallas",
		"Boston Center for Reproductive Medicine",
		"Seattle Fertility Clinic North",
		"Plain Name",
	}

	for _, input := range inputs {
		once := Name(input)
		assert.Equal(t, once, Name(once), "Name should be idempotent for %q", input)
	}
}

func TestAddress(t *testing.T) {
	tests := []struct {
		name     string
		parts    AddressParts
		expected string
	}{
		{
			name: "abbreviates street words",
			parts: AddressParts{
				Line1: "123 Main Street",
				City:  "Atlanta",
				State: "GA",
				Zip:   "30301",
			},
			expected: "123 main st|atlanta|ga|30301",
		},
		{
			name: "same key for abbreviated and full forms",
			parts: AddressParts{
				Line1: "123 Main St.",
				City:  "Atlanta",
				State: "GA",
				Zip:   "30301",
			},
			expected: "123 main st|atlanta|ga|30301",
		},
		{
			name: "truncates zip+4",
			parts: AddressParts{
				Line1: "500 North Park Avenue, Suite 200",
				City:  "Denver",
				State: "CO",
				Zip:   "80203-1234",
			},
			expected: "500 n park ave ste 200|denver|co|80203",
		},
		{
			name:     "empty address yields no key",
			parts:    AddressParts{},
			expected: "",
		},
		{
			name: "too few significant characters yields no key",
			parts: AddressParts{
				Line1: "--",
				State: "GA",
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Address(tt.parts))
		})
	}
}
