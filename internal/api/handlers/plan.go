package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/services"
	"log"
	"net/http"
	"strings"
	"time"
)

const maxBudgetMinutes = 16 * 60

var socialModes = map[string]domain.SocialMode{
	"":        domain.SocialSolo,
	"solo":    domain.SocialSolo,
	"couple":  domain.SocialCouple,
	"family":  domain.SocialFamily,
	"friends": domain.SocialFriends,
}

// ItineraryHandler orchestrates request resolution (geocoding, weather,
// interest embedding) and the planning pipeline.
type ItineraryHandler struct {
	Planner   *services.Planner
	Geocoder  ports.Geocoder
	Weather   ports.WeatherProvider
	Embedder  ports.Embedder
	Explainer ports.Explainer
}

func (h *ItineraryHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.BudgetMinutes < 1 || req.BudgetMinutes > maxBudgetMinutes {
		writeError(w, r, http.StatusBadRequest, "budget_minutes must be between 1 and 960")
		return
	}

	intensity, err := domain.ParseIntensity(req.Intensity)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "intensity must be one of: relaxed, medium, intense")
		return
	}

	social, ok := socialModes[strings.TrimSpace(req.Social)]
	if !ok {
		writeError(w, r, http.StatusBadRequest, "social must be one of: solo, couple, family, friends")
		return
	}

	start, err := h.resolveStart(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrStartUnresolved) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	// Weather and interest embedding are independent of each other and
	// of nothing else; fetch them in parallel. Both are best-effort.
	weatherCh := make(chan *domain.WeatherSnapshot, 1)
	go func() {
		weatherCh <- h.fetchWeather(r.Context(), start)
	}()

	queryEmbedding := h.embedInterests(r.Context(), req.Interests)
	weather := <-weatherCh

	planReq := domain.PlanRequest{
		Start:                start,
		StartTime:            startTime,
		BudgetMinutes:        req.BudgetMinutes,
		Intensity:            intensity,
		Social:               social,
		Weather:              weather,
		QueryEmbedding:       queryEmbedding,
		Categories:           req.Categories,
		BreakIntervalMinutes: req.BreakIntervalMinutes,
	}

	itin, err := h.Planner.Plan(r.Context(), planReq)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoCandidates),
			errors.Is(err, services.ErrRouteInfeasible):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("plan itinerary failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	res := toItineraryResponse(itin)
	if h.Explainer != nil {
		ex := h.Explainer.Explain(r.Context(), itin.Stops, social)
		res.Explanation = &dto.ExplanationResponse{
			Summary: ex.Summary,
			PerStop: ex.PerStop,
			Notes:   ex.Notes,
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// resolveStart turns the request's start into coordinates: explicit
// coordinates win; otherwise the address is geocoded.
func (h *ItineraryHandler) resolveStart(ctx context.Context, req dto.PlanRequest) (domain.Coordinates, error) {
	if req.Start != nil {
		c := domain.Coordinates{Lat: req.Start.Lat, Lon: req.Start.Lon}
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			return domain.Coordinates{}, errors.New("start coordinates are out of range")
		}
		return c, nil
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return domain.Coordinates{}, errors.New("either start or address is required")
	}
	if h.Geocoder == nil {
		return domain.Coordinates{}, services.ErrStartUnresolved
	}

	result, err := h.Geocoder.Resolve(ctx, address)
	if err != nil {
		log.Printf("geocode failed: address=%q err=%v", address, err)
		return domain.Coordinates{}, services.ErrStartUnresolved
	}
	return result.Coord, nil
}

func (h *ItineraryHandler) fetchWeather(ctx context.Context, at domain.Coordinates) *domain.WeatherSnapshot {
	if h.Weather == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	snap, err := h.Weather.Snapshot(ctx, at)
	if err != nil {
		log.Printf("weather fetch failed: %v", err)
		return nil
	}
	return snap
}

func (h *ItineraryHandler) embedInterests(ctx context.Context, interests string) []float64 {
	interests = strings.TrimSpace(interests)
	if interests == "" || h.Embedder == nil {
		return nil
	}

	vec, err := h.Embedder.Embed(ctx, interests)
	if err != nil {
		log.Printf("interest embedding failed: %v", err)
		return nil
	}
	return vec
}

func toItineraryResponse(itin *domain.Itinerary) dto.ItineraryResponse {
	res := dto.ItineraryResponse{
		Stops:           make([]dto.StopResponse, 0, len(itin.Stops)),
		Legs:            make([]dto.LegResponse, 0, len(itin.Legs)),
		TotalDistanceKm: itin.TotalDistanceKm,
		TotalMinutes:    itin.TotalMinutes,
		Warnings:        itin.Warnings,
	}

	for _, s := range itin.Stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			Order:              s.Order,
			POIID:              s.POIID,
			Name:               s.Name,
			Lat:                s.Coord.Lat,
			Lon:                s.Coord.Lon,
			Category:           s.Category,
			ArriveAt:           s.ArriveAt,
			LeaveAt:            s.LeaveAt,
			IsOpen:             s.IsOpen,
			Hours:              s.HoursLabel,
			Note:               s.AvailabilityNote,
			IsBreak:            s.IsBreak,
			DistanceFromPrevKm: s.DistanceFromPrevKm,
		})
	}

	for _, l := range itin.Legs {
		geometry := make([]dto.Point, 0, len(l.Geometry))
		for _, c := range l.Geometry {
			geometry = append(geometry, dto.Point{Lat: c.Lat, Lon: c.Lon})
		}
		res.Legs = append(res.Legs, dto.LegResponse{
			DistanceKm:      l.DistanceKm,
			DurationMinutes: l.DurationMinutes,
			Geometry:        geometry,
		})
	}

	return res
}
