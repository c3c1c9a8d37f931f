package domain

// Represents a visitable point of interest loaded from the catalog.
// A POI is read-only input for a single planning request: the planner
// never mutates catalog data.
type POI struct {
	ID       string
	Name     string
	Coord    Coordinates
	Category string
	Tags     []string

	// Rating is 0-5; zero means unrated.
	Rating float64

	// VisitMinutes is the average visit duration suggested by the catalog.
	VisitMinutes int

	// Explicit daily open/close as "HH:MM", used when HoursExpr is absent.
	OpensAt  string
	ClosesAt string

	// HoursExpr is a structured weekly expression such as
	// "Mo-Fr 10:00-18:00; Sa-Su 11:00-16:00".
	HoursExpr string

	// Embedding is the catalog-side vector compared against the query
	// embedding during scoring. May be empty.
	Embedding []float64
}

// HasTag reports whether the POI carries the given free-form tag.
func (p *POI) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
