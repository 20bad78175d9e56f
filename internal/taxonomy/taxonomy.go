package taxonomy

import (
	"errors"
	"fmt"
	"slices"
)

// Group is the coarse body region a category covers. It gates which
// attributes are meaningful for a category.
type Group int

const (
	GroupTop      Group = 1
	GroupBottom   Group = 2
	GroupFullBody Group = 3
)

func (g Group) String() string {
	switch g {
	case GroupTop:
		return "TOP"
	case GroupBottom:
		return "BOTTOM"
	case GroupFullBody:
		return "FULL_BODY"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Group) UnmarshalText(text []byte) error {
	switch string(text) {
	case "TOP":
		*g = GroupTop
	case "BOTTOM":
		*g = GroupBottom
	case "FULL_BODY":
		*g = GroupFullBody
	default:
		return fmt.Errorf("unknown category group %q", string(text))
	}
	return nil
}

const (
	CategoryCount  = 50
	AttributeCount = 26
)

var (
	ErrUnknownCategory  = errors.New("unknown category index")
	ErrUnknownAttribute = errors.New("unknown attribute index")
)

type CategoryEntry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Group Group  `json:"group"`
}

type AttributeEntry struct {
	Index            int     `json:"index"`
	Name             string  `json:"name"`
	ApplicableGroups []Group `json:"applicable_groups"`
}

// AppliesTo reports whether the attribute is meaningful for the group.
// An attribute without applicable groups applies everywhere.
func (a AttributeEntry) AppliesTo(group Group) bool {
	return len(a.ApplicableGroups) == 0 || slices.Contains(a.ApplicableGroups, group)
}

// Taxonomy holds the category and attribute tables. A Taxonomy is never
// mutated after construction and can be shared between goroutines.
type Taxonomy struct {
	categories [CategoryCount]CategoryEntry
	attributes [AttributeCount]AttributeEntry
}

// Default returns the process-wide DeepFashion taxonomy.
func Default() *Taxonomy {
	return deepFashion
}

// Category looks up a category by its 1-based index.
func (t *Taxonomy) Category(index int) (CategoryEntry, error) {
	if index < 1 || index > CategoryCount {
		return CategoryEntry{}, fmt.Errorf("%w: %d", ErrUnknownCategory, index)
	}
	return t.categories[index-1], nil
}

// Attribute looks up an attribute by its 1-based index.
func (t *Taxonomy) Attribute(index int) (AttributeEntry, error) {
	if index < 1 || index > AttributeCount {
		return AttributeEntry{}, fmt.Errorf("%w: %d", ErrUnknownAttribute, index)
	}
	return cloneAttribute(t.attributes[index-1]), nil
}

func (t *Taxonomy) CategoryCount() int {
	return len(t.categories)
}

func (t *Taxonomy) AttributeCount() int {
	return len(t.attributes)
}

// Categories returns a copy of the category table in index order.
func (t *Taxonomy) Categories() []CategoryEntry {
	return slices.Clone(t.categories[:])
}

// Attributes returns a copy of the attribute table in index order.
func (t *Taxonomy) Attributes() []AttributeEntry {
	out := make([]AttributeEntry, len(t.attributes))
	for i, a := range t.attributes {
		out[i] = cloneAttribute(a)
	}
	return out
}

func cloneAttribute(a AttributeEntry) AttributeEntry {
	a.ApplicableGroups = slices.Clone(a.ApplicableGroups)
	return a
}
