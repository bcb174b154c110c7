package geo

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// NoGeoDataLabel stands in for the distance when either the order or the
// restaurant has no resolved coordinate.
const NoGeoDataLabel = "No Geo API data"

type Candidate struct {
	Name       string
	Coordinate *Coordinate
}

// RankRestaurants ranks candidates by distance from the origin and yields
// lines of the form "<name> - <distance> km". When the origin is unknown
// every candidate gets the sentinel label in input order, unsorted.
//
// Ranked entries are sorted by the rendered label text, so e.g.
// "10.000 km" comes before "9.000 km". The returned sequence is finite,
// restartable and has no side effects.
func RankRestaurants(origin *Coordinate, candidates []Candidate) iter.Seq[string] {
	return func(yield func(string) bool) {
		if origin == nil {
			for _, candidate := range candidates {
				if !yield(candidate.Name + " - " + NoGeoDataLabel) {
					return
				}
			}

			return
		}

		type ranked struct {
			name  string
			label string
		}

		entries := make([]ranked, 0, len(candidates))

		for _, candidate := range candidates {
			label := NoGeoDataLabel
			if candidate.Coordinate != nil {
				label = fmt.Sprintf("%.3f km", Distance(*origin, *candidate.Coordinate))
			}

			entries = append(entries, ranked{name: candidate.Name, label: label})
		}

		slices.SortStableFunc(entries, func(a, b ranked) int {
			return strings.Compare(a.label, b.label)
		})

		for _, entry := range entries {
			if !yield(entry.name + " - " + entry.label) {
				return
			}
		}
	}
}
