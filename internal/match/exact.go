package match

import (
	"strings"

	"github.com/pharmalign/drugalign/internal/dataset"
	"github.com/pharmalign/drugalign/internal/normalize"
)

// referenceIndex maps normalized reference names to all records carrying that
// name, in input order. First occurrence wins on lookup; duplicates are kept
// so callers can report them.
type referenceIndex map[string][]dataset.ReferenceRecord

func buildReferenceIndex(refs []dataset.ReferenceRecord, rules normalize.Rules) referenceIndex {
	idx := make(referenceIndex, len(refs))
	for _, ref := range refs {
		key := normalize.Name(ref.Name, rules)
		if key == "" {
			continue
		}
		idx[key] = append(idx[key], ref)
	}
	return idx
}

// candidateNames returns every normalized form a source record can match
// under: the primary name, each synonym, and each multi-word synonym with its
// spaces removed (chemical names are often split inconsistently). Empty forms
// are dropped so blank input never matches anything.
func candidateNames(rec dataset.DrugRecord, rules normalize.Rules) []string {
	seen := make(map[string]struct{}, 1+2*len(rec.Synonyms))
	var names []string
	add := func(raw string) {
		n := normalize.Name(raw, rules)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	add(rec.Name)
	for _, syn := range rec.Synonyms {
		add(syn)
		if parts := strings.Fields(syn); len(parts) > 1 {
			add(strings.Join(parts, ""))
		}
	}
	return names
}

// Exact partitions drugs into records whose primary name or any synonym
// normalizes to a reference name, and the remainder. The reference set keeps
// its input order; when several references share a normalized name the first
// one wins and the duplicate set is reported through duplicates.
func Exact(drugs []dataset.DrugRecord, refs []dataset.ReferenceRecord, rules normalize.Rules) (matched []Result, unmatched []dataset.DrugRecord, duplicates map[string][]string) {
	idx := buildReferenceIndex(refs, rules)
	duplicates = make(map[string][]string)

	for _, rec := range drugs {
		var hit *dataset.ReferenceRecord
		for _, name := range candidateNames(rec, rules) {
			entries, ok := idx[name]
			if !ok {
				continue
			}
			if len(entries) > 1 {
				names := make([]string, len(entries))
				for i, e := range entries {
					names[i] = e.Name
				}
				duplicates[rec.Name] = names
			}
			hit = &entries[0]
			break
		}
		if hit != nil {
			matched = append(matched, Result{Source: rec, Reference: *hit, Method: MethodExact, Score: 100})
		} else {
			unmatched = append(unmatched, rec)
		}
	}
	return matched, unmatched, duplicates
}
