// Package normalize canonicalizes raw drug-name strings into a comparable
// form. The canonical form is only ever used for equality and similarity
// comparison; it is never shown to the user.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	disallowedRe = regexp.MustCompile(`[^a-z0-9\s\-]`)
	spaceRe      = regexp.MustCompile(`\s+`)

	// NFD, strip combining marks, NFC: folds "ácido" to "acido".
	accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Name reduces a raw drug name to its canonical comparison form. Steps run in
// a fixed order: lowercase, strip parentheticals, alias lookup, acid-variant
// rewriting, chemical-prefix replacements, accent folding, special-character
// strip, whitespace collapse, and a final alias lookup on the cleaned form.
// Pure and deterministic; empty or whitespace-only input yields "".
func Name(raw string, rules Rules) string {
	name := strings.ToLower(raw)
	name = parenRe.ReplaceAllString(name, "")

	// Whole-name aliases are looked up on the trimmed form so that
	// "vitamin c " and "vitamin c" hit the same entry.
	if alias, ok := rules.VitaminAliases[strings.TrimSpace(name)]; ok {
		name = alias
	}
	if alias, ok := rules.DrugAliases[strings.TrimSpace(name)]; ok {
		name = alias
	}

	for _, variant := range rules.AcidVariants {
		name = strings.ReplaceAll(name, variant, "acid")
	}
	for _, r := range rules.Replacements {
		name = strings.ReplaceAll(name, r.Old, r.New)
	}

	if folded, _, err := transform.String(accentFold, name); err == nil {
		name = folded
	}
	name = disallowedRe.ReplaceAllString(name, "")
	name = spaceRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	// The replacements and the character strip can both produce an alias
	// key ("pyridoxal 5-phosphate" becomes "pyridoxal 5p", "c.s.a." becomes
	// "csa"), so the lookup runs once more on the final form. This keeps
	// Name(Name(x)) == Name(x).
	if alias, ok := rules.VitaminAliases[name]; ok {
		name = alias
	}
	if alias, ok := rules.DrugAliases[name]; ok {
		name = alias
	}
	return name
}
