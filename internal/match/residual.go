package match

import (
	"regexp"
	"strings"

	"github.com/pharmalign/drugalign/internal/dataset"
)

// Category is one descriptive bucket for still-unmatched names. Categories
// are not exclusive: a name can count toward several.
type Category struct {
	Name    string
	pattern *regexp.Regexp
}

// maxCategoryExamples caps how many sample names are kept per bucket.
const maxCategoryExamples = 3

// Categories returns the fixed residual-analysis buckets, in report order.
func Categories() []Category {
	return []Category{
		{"peptides", regexp.MustCompile(`peptide|protein|factor|hormone|insulin|globulin`)},
		{"vitamins", regexp.MustCompile(`vitamin|ascorb|folic|thiamin|riboflavin`)},
		{"antibiotics", regexp.MustCompile(`mycin|cillin|cycline`)},
		{"steroids", regexp.MustCompile(`steroid|sterone|sterol`)},
		{"enzymes", regexp.MustCompile(`enzyme|ase$`)},
		{"salts", regexp.MustCompile(`sodium|potassium|chloride|sulfate|phosphate$`)},
		{"acids", regexp.MustCompile(`acid$|acid\s`)},
		{"complex-names", regexp.MustCompile(`\d|[()\[\]]|-`)},
	}
}

// CategoryCount is the per-bucket tally with a small sample of names.
type CategoryCount struct {
	Name     string
	Count    int
	Examples []string
}

// Residual classifies names left unmatched after the fuzzy stage into
// descriptive buckets. Purely a reporting aid; nothing downstream matches on
// it. Names hitting no pattern land in the trailing "uncategorized" bucket.
func Residual(unmatched []dataset.DrugRecord) []CategoryCount {
	cats := Categories()
	counts := make([]CategoryCount, len(cats), len(cats)+1)
	for i, c := range cats {
		counts[i] = CategoryCount{Name: c.Name}
	}
	uncategorized := CategoryCount{Name: "uncategorized"}

	for _, rec := range unmatched {
		name := strings.ToLower(rec.Name)
		hit := false
		for i, c := range cats {
			if c.pattern.MatchString(name) {
				hit = true
				counts[i].Count++
				if len(counts[i].Examples) < maxCategoryExamples {
					counts[i].Examples = append(counts[i].Examples, rec.Name)
				}
			}
		}
		if !hit {
			uncategorized.Count++
			if len(uncategorized.Examples) < maxCategoryExamples {
				uncategorized.Examples = append(uncategorized.Examples, rec.Name)
			}
		}
	}
	return append(counts, uncategorized)
}
