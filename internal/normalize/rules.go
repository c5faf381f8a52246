package normalize

// Replacement is a single ordered substring substitution. Order matters:
// "5-phosphate" must be tried before "-phosphate" would ever see it, so the
// rules are kept as a slice rather than a map.
type Replacement struct {
	Old string
	New string
}

// Rules holds the fixed mapping tables the normalizer applies. The tables are
// plain data passed in explicitly so Name stays a pure function; callers that
// need custom chemistry can supply their own.
type Rules struct {
	// VitaminAliases maps whole (lowercased, paren-stripped) names of
	// vitamins to their chemical names, e.g. "vitamin c" -> "ascorbic acid".
	VitaminAliases map[string]string
	// DrugAliases maps abbreviations and spelling variants of common drugs
	// to one canonical name, e.g. "csa" -> "cyclosporine".
	DrugAliases map[string]string
	// AcidVariants are language variants rewritten to "acid".
	AcidVariants []string
	// Replacements are chemical-nomenclature substitutions applied in order.
	Replacements []Replacement
}

// DefaultRules returns the mapping tables used for repurposing-hub matching.
func DefaultRules() Rules {
	return Rules{
		VitaminAliases: map[string]string{
			"vitamin c":   "ascorbic acid",
			"vitamina c":  "ascorbic acid",
			"vitamin b6":  "pyridoxine",
			"vitamina b6": "pyridoxine",
			"vitamin b1":  "thiamine",
			"vitamina b1": "thiamine",
			"vitamin d":   "calciferol",
			"vitamina d":  "calciferol",
		},
		DrugAliases: map[string]string{
			"csa":          "cyclosporine",
			"cya":          "cyclosporine",
			"cyclosporin":  "cyclosporine",
			"ciclosporin":  "cyclosporine",
			"ddavp":        "desmopressin",
			"plp":          "pyridoxal phosphate",
			"pyridoxal5p":  "pyridoxal phosphate",
			"pyridoxal 5p": "pyridoxal phosphate",
		},
		AcidVariants: []string{"acide", "ácido", "acidum", "säure"},
		Replacements: []Replacement{
			{"l-", ""},
			{"d-", ""},
			{"dl-", ""},
			{"beta-", "b"},
			{"alpha-", "a"},
			{"gamma-", "g"},
			{"5-phosphate", "5p"},
			{"5'-phosphate", "5p"},
			{"5-monophosphate", "5p"},
			{"-monophosphate", "p"},
			{"-phosphate", "p"},
			{"hydroxy", "oh"},
			{"amino", "nh2"},
			{"ascorbate", "ascorbic acid"},
			{"phosphoric", "p"},
			{"carboxylic", "cooh"},
			{"1-deamino", "1d"},
			{"8-d-arginine", "8darg"},
		},
	}
}
