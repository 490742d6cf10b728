package utils

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NameComparator orders display names the way a locale-aware string compare
// does: accents and case are secondary to the base letters, and lowercase
// sorts before uppercase when the names otherwise match.
//
// A NameComparator is not safe for concurrent use.
type NameComparator struct {
	c *collate.Collator
}

// NewNameComparator returns a comparator for English collation
func NewNameComparator() *NameComparator {
	return &NameComparator{c: collate.New(language.English)}
}

// Compare returns -1, 0 or 1
func (n *NameComparator) Compare(a, b string) int {
	return n.c.CompareString(a, b)
}
