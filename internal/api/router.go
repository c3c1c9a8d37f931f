package api

import (
	"itinerary-route-service/internal/api/handlers"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/services"
	"net/http"
)

// Deps carries the resolved adapters the handlers depend on. Optional
// collaborators (weather, embedder, explainer) may be nil.
type Deps struct {
	Planner   *services.Planner
	Catalog   ports.POICatalog
	Geocoder  ports.Geocoder
	Weather   ports.WeatherProvider
	Embedder  ports.Embedder
	Explainer ports.Explainer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	poiHandler := &handlers.POIHandler{Catalog: deps.Catalog}
	itineraryHandler := &handlers.ItineraryHandler{
		Planner:   deps.Planner,
		Geocoder:  deps.Geocoder,
		Weather:   deps.Weather,
		Embedder:  deps.Embedder,
		Explainer: deps.Explainer,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/pois", poiHandler.List)
	mux.HandleFunc("/itineraries", itineraryHandler.Plan)

	return requestIDMiddleware(loggingMiddleware(mux))
}
