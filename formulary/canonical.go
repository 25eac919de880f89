package formulary

import "sort"

// canonicalNames is the union of every synonym target and every family
// member, deduplicated and sorted. Family keys are categories, not drug
// names, so they are left out.
var canonicalNames = func() []string {
	seen := make(map[string]bool)
	for _, canonical := range synonyms {
		seen[canonical] = true
	}
	for _, members := range families {
		for _, member := range members {
			seen[member] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// CanonicalNames returns every canonical drug name the formulary knows,
// sorted. It seeds the drug catalog so autocomplete works before staff
// have entered anything.
func CanonicalNames() []string {
	return canonicalNames
}
