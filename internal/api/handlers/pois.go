package handlers

import (
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
)

// POIHandler exposes read-only catalog endpoints.
type POIHandler struct {
	Catalog ports.POICatalog
}

func (h *POIHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var categories []string
	if raw := strings.TrimSpace(r.URL.Query().Get("categories")); raw != "" {
		categories = strings.Split(raw, ",")
	}

	pois, err := h.Catalog.Query(r.Context(), categories)
	if err != nil {
		log.Printf("list pois failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPOIsResponse{
		POIs: make([]dto.POIResponse, 0, len(pois)),
	}
	for _, p := range pois {
		res.POIs = append(res.POIs, dto.POIResponse{
			POIID:        p.ID,
			Name:         p.Name,
			Lat:          p.Coord.Lat,
			Lon:          p.Coord.Lon,
			Category:     p.Category,
			Tags:         p.Tags,
			Rating:       p.Rating,
			VisitMinutes: p.VisitMinutes,
			OpensAt:      p.OpensAt,
			ClosesAt:     p.ClosesAt,
			HoursExpr:    p.HoursExpr,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
