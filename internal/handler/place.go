package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// PlaceHandler handles HTTP requests for the place catalog.
type PlaceHandler struct {
	placeService *service.PlaceService
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(placeService *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// PlaceResponse is the wire shape of a catalog place.
type PlaceResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Category   string   `json:"category"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func placeResponse(p domain.Place) PlaceResponse {
	return PlaceResponse{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		Lat:      p.Lat,
		Lng:      p.Lng,
		Category: p.Category,
	}
}

// Search handles GET /v1/places/search?q=
func (h *PlaceHandler) Search(c *gin.Context) {
	places, err := h.placeService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		response = append(response, placeResponse(p))
	}

	respondJSON(c, http.StatusOK, response)
}

// Nearby handles GET /v1/places/nearby?lat=&lng=&radius_km=
func (h *PlaceHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng are required"})
		return
	}

	radiusKm := 5.0
	if raw := c.Query("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid radius_km"})
			return
		}
		radiusKm = parsed
	}

	nearby, err := h.placeService.Nearby(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PlaceResponse, 0, len(nearby))
	for _, np := range nearby {
		pr := placeResponse(np.Place)
		dist := np.DistanceKm
		pr.DistanceKm = &dist
		response = append(response, pr)
	}

	respondJSON(c, http.StatusOK, response)
}

// CurrentLocation handles GET /v1/places/current-location
func (h *PlaceHandler) CurrentLocation(c *gin.Context) {
	loc := h.placeService.CurrentLocation(c.Request.Context())
	respondJSON(c, http.StatusOK, LocationDTO{
		Address: loc.Address,
		Lat:     loc.Lat,
		Lng:     loc.Lng,
	})
}
