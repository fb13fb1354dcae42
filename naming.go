package subgraph

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// SingularFieldName is the query field that looks up one instance of a type by id
func SingularFieldName(typeName string) string {
	return lowerCamel(typeName)
}

// PluralFieldName is the query field that lists instances of a type. When the plural of a
// name is the name itself ("sheep") the field gets a _collection suffix so the two query
// fields stay distinct.
func PluralFieldName(typeName string) string {
	singular := lowerCamel(typeName)
	plural := inflection.Plural(singular)
	if plural == singular {
		return singular + "_collection"
	}
	return plural
}

// lowerCamel turns a type name into a field name: words are split on underscores and case
// changes, the first word is lower cased and the others capitalized.
func lowerCamel(name string) string {
	words := splitWords(name)
	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func splitWords(name string) []string {
	words := []string{}
	runes := []rune(name)
	start := 0
	flush := func(end int) {
		if end > start {
			words = append(words, string(runes[start:end]))
		}
	}
	for i, r := range runes {
		switch {
		case r == '_':
			flush(i)
			start = i + 1
		case i > start && unicode.IsUpper(r):
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// "bandMember" splits before M, "ERC20Token" splits before T but not inside ERC
			if unicode.IsLower(prev) || unicode.IsDigit(prev) && nextLower || unicode.IsUpper(prev) && nextLower {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return words
}
