package dto

type POIResponse struct {
	POIID        string   `json:"poi_id"`
	Name         string   `json:"name"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Rating       float64  `json:"rating"`
	VisitMinutes int      `json:"visit_minutes"`
	OpensAt      string   `json:"opens_at,omitempty"`
	ClosesAt     string   `json:"closes_at,omitempty"`
	HoursExpr    string   `json:"hours_expr,omitempty"`
}

type ListPOIsResponse struct {
	POIs []POIResponse `json:"pois"`
}
