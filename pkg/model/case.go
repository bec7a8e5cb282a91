package model

import (
	"strings"
	"unicode"
)

// CamelCase converts snake_case, kebab-case or an exported Go identifier to lowerCamelCase.
//
//	first_name -> firstName
//	FirstName  -> firstName
//	HTTPServer -> httpServer
func CamelCase(s string) string {
	if strings.ContainsAny(s, "_-") {
		parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
		for i, p := range parts {
			if i == 0 {
				parts[i] = strings.ToLower(p)
				continue
			}
			parts[i] = upperFirst(strings.ToLower(p))
		}
		return strings.Join(parts, "")
	}
	return lowerLeading(s)
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// lowerLeading lowers the leading run of upper-case letters, keeping the last
// one upper-case when it starts the next word.
func lowerLeading(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
