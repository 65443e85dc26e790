package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Context maps placeholder names to resolved values. It is built once per
// resolution pass and never mutated afterwards; a language or data change
// rebuilds it from scratch.
type Context map[string]any

// pluralToken matches {{plural:<key>:<singular>|<plural>}}.
var pluralToken = regexp.MustCompile(`\{\{plural:([^:{}]+):([^|{}]*)\|([^{}]*)\}\}`)

// Resolve replaces every occurrence of each recognized placeholder with
// its context value. Unknown placeholders remain unchanged and never cause
// an error. Resolving a template with no remaining placeholders returns it
// verbatim, so Resolve is idempotent.
func Resolve(template string, ctx Context) string {
	result := resolvePlurals(template, ctx)
	for key, value := range ctx {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, fmt.Sprintf("%v", value))
	}
	return result
}

// resolvePlurals expands plural tokens whose count key is present in the
// context. Tokens with an unknown key are left untouched.
func resolvePlurals(template string, ctx Context) string {
	return pluralToken.ReplaceAllStringFunc(template, func(tok string) string {
		m := pluralToken.FindStringSubmatch(tok)
		n, ok := countValue(ctx[m[1]])
		if !ok {
			return tok
		}
		return Plural(n, m[2], m[3])
	})
}

// Plural selects the singular form for a count of one (or minus one) and
// the plural form otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 || n == -1 {
		return singular
	}
	return plural
}

// countValue coerces a context value into an int for plural selection.
func countValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
