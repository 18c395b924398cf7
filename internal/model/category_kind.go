package model

import "strings"

// CategoryKind is the closed set of unit categories the engine dispatches on.
type CategoryKind int

const (
	KindUnknown CategoryKind = iota
	KindMass
	KindVolume
	KindCount
)

const (
	CategoryMass   = "mass"
	CategoryVolume = "volume"
	CategoryCount  = "count"
)

func (k CategoryKind) String() string {
	switch k {
	case KindMass:
		return CategoryMass
	case KindVolume:
		return CategoryVolume
	case KindCount:
		return CategoryCount
	default:
		return "unknown"
	}
}

// Measurable reports whether units of this kind carry a universal physical
// factor (mass or volume).
func (k CategoryKind) Measurable() bool {
	return k == KindMass || k == KindVolume
}

// KindOf maps a category name onto its kind. Unknown names stay KindUnknown
// and only ever convert inside their own category.
func KindOf(categoryName string) CategoryKind {
	switch strings.ToLower(strings.TrimSpace(categoryName)) {
	case CategoryMass:
		return KindMass
	case CategoryVolume:
		return KindVolume
	case CategoryCount:
		return KindCount
	default:
		return KindUnknown
	}
}

// IsMassVolumePair reports whether a and b straddle mass and volume in either
// direction.
func IsMassVolumePair(a, b CategoryKind) bool {
	return (a == KindMass && b == KindVolume) || (a == KindVolume && b == KindMass)
}
