package geo

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// CityKey normalizes a city name for cache keys and deduplication:
// surrounding space trimmed, inner runs collapsed, case folded.
func CityKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// Pair is an unordered pair of city keys stored in canonical order.
type Pair struct {
	A string
	B string
}

// NewPair normalizes both names and orders them so that (x, y) and
// (y, x) yield the same pair.
func NewPair(x, y string) Pair {
	a, b := CityKey(x), CityKey(y)
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Same reports whether both sides name the same city.
func (p Pair) Same() bool { return p.A == p.B }

// Key renders the pair as a single cache key component. The length of A
// leads, so names containing the delimiter cannot collide.
func (p Pair) Key() string { return strconv.Itoa(len(p.A)) + ":" + p.A + "|" + p.B }
