// Package allergy implements the heuristic conflict matcher that warns
// when a drug may overlap with a patient's declared allergies, directly or
// through a shared drug family. Results are advisory only: staff must
// acknowledge a warning, the action is never auto-blocked.
package allergy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joelgonn/enfermaria-api/formulary"
	"github.com/joelgonn/enfermaria-api/normalize"
)

// Tokens shorter than this are noise ("e", "de", stray punctuation).
const minTokenLen = 3

// Allergy lists are split on commas, semicolons, or a standalone
// conjunction ("e" in Portuguese, "and" for good measure).
var tokenSplitter = regexp.MustCompile(`[,;]|\be\b|\band\b`)

// Conflict describes one detected overlap between the allergy list and a
// drug name. Token is the allergy token that fired; Family is set for the
// family-based rules.
type Conflict struct {
	Token  string `json:"token"`
	Family string `json:"family,omitempty"`
	Reason string `json:"reason"`
}

// Check decides whether administering drugName to a patient with the given
// free-text allergy list should raise a warning. It returns nil when no
// token matches. Empty allergy text short-circuits to no conflict. The
// match is textual, not clinical: false positives and negatives happen.
func Check(drugName, allergies string) *Conflict {
	if strings.TrimSpace(allergies) == "" {
		return nil
	}

	drug := formulary.ResolveSynonym(normalize.Text(drugName))
	if drug == "" {
		return nil
	}

	for _, token := range SplitAllergies(allergies) {
		if c := checkToken(token, drug); c != nil {
			return c
		}
	}

	return nil
}

// SplitAllergies tokenizes free-text allergy lists into normalized tokens,
// dropping noise tokens of length below minTokenLen.
func SplitAllergies(text string) []string {
	var tokens []string
	for _, raw := range tokenSplitter.Split(normalize.Text(text), -1) {
		token := strings.TrimSpace(raw)
		if len(token) < minTokenLen {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// checkToken applies the conflict rules for one allergy token, in order,
// first match wins.
func checkToken(token, drug string) *Conflict {
	// Rule 1: direct substring overlap in either direction.
	if strings.Contains(drug, token) || strings.Contains(token, drug) {
		return &Conflict{
			Token:  token,
			Reason: fmt.Sprintf("possible direct allergy to %s", token),
		}
	}

	// Rule 2: the allergy names a family and the drug is a member.
	if members, ok := formulary.FamilyMembers(token); ok {
		for _, member := range members {
			if strings.Contains(drug, member) {
				return &Conflict{
					Token:  token,
					Family: token,
					Reason: fmt.Sprintf("group risk: %s family", token),
				}
			}
		}
	}

	// Rule 3: the drug name itself is a family key and the allergy token
	// is a member of it.
	if members, ok := formulary.FamilyMembers(drug); ok {
		for _, member := range members {
			if strings.Contains(token, member) {
				return &Conflict{
					Token:  token,
					Family: drug,
					Reason: fmt.Sprintf("group risk: %s family", drug),
				}
			}
		}
	}

	// Rule 4: token and drug both match members of the same family.
	for _, family := range formulary.FamilyKeys() {
		members, _ := formulary.FamilyMembers(family)
		if matchesAnyMember(token, members) && matchesAnyMember(drug, members) {
			return &Conflict{
				Token:  token,
				Family: family,
				Reason: fmt.Sprintf("cross-reaction: %s and %s share the %s family", token, drug, family),
			}
		}
	}

	return nil
}

// matchesAnyMember reports whether s overlaps any member substring, in
// either direction.
func matchesAnyMember(s string, members []string) bool {
	for _, member := range members {
		if strings.Contains(s, member) || strings.Contains(member, s) {
			return true
		}
	}
	return false
}
