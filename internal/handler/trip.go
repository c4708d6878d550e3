package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// TripHandler handles HTTP requests for trips and fare estimates.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// LocationDTO is the wire shape of a location.
type LocationDTO struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (l LocationDTO) toDomain() domain.Location {
	return domain.Location{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func locationDTO(l domain.Location) LocationDTO {
	return LocationDTO{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

// DriverDTO is the wire shape of an assigned driver.
type DriverDTO struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Phone  string  `json:"phone"`
}

// TripResponse is the wire shape of a trip.
type TripResponse struct {
	ID           string      `json:"id"`
	Pickup       LocationDTO `json:"pickup"`
	Destination  LocationDTO `json:"destination"`
	Type         string      `json:"type"`
	Status       string      `json:"status"`
	Fare         float64     `json:"fare"`
	Driver       *DriverDTO  `json:"driver,omitempty"`
	PaymentKind  string      `json:"payment_kind"`
	CancelReason string      `json:"cancel_reason,omitempty"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:           trip.ID,
		Pickup:       locationDTO(trip.Pickup),
		Destination:  locationDTO(trip.Destination),
		Type:         string(trip.Type),
		Status:       string(trip.Status),
		Fare:         trip.Fare,
		PaymentKind:  string(trip.PaymentKind),
		CancelReason: trip.CancelReason,
		CreatedAt:    trip.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    trip.UpdatedAt.Format(time.RFC3339),
	}
	if trip.Driver != nil {
		resp.Driver = &DriverDTO{
			Name:   trip.Driver.Name,
			Rating: trip.Driver.Rating,
			Phone:  trip.Driver.Phone,
		}
	}
	return resp
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	Pickup      LocationDTO `json:"pickup"`
	Destination LocationDTO `json:"destination"`
	Type        string      `json:"type"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	Total           float64           `json:"total"`
	BaseFare        float64           `json:"base_fare"`
	Distance        float64           `json:"distance"`
	Duration        float64           `json:"duration"`
	SurgeMultiplier float64           `json:"surge_multiplier"`
	Breakdown       BreakdownResponse `json:"breakdown"`
}

// BreakdownResponse itemizes an estimate.
type BreakdownResponse struct {
	Base  float64 `json:"base"`
	PerKm float64 `json:"per_km"`
	Surge float64 `json:"surge"`
}

// EstimateFare handles POST /v1/fare-estimate
func (h *TripHandler) EstimateFare(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	estimate, err := h.tripService.EstimateFare(c.Request.Context(), service.EstimateRequest{
		Pickup:      req.Pickup.toDomain(),
		Destination: req.Destination.toDomain(),
		Type:        domain.TripType(req.Type),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EstimateResponse{
		Total:           estimate.Total,
		BaseFare:        estimate.BaseFare,
		Distance:        estimate.DistanceKm,
		Duration:        estimate.DurationMin,
		SurgeMultiplier: estimate.SurgeMultiplier,
		Breakdown: BreakdownResponse{
			Base:  estimate.Breakdown.Base,
			PerKm: estimate.Breakdown.PerKm,
			Surge: estimate.Breakdown.Surge,
		},
	})
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	Pickup      LocationDTO `json:"pickup"`
	Destination LocationDTO `json:"destination"`
	Type        string      `json:"type"`
	PaymentKind string      `json:"payment_kind,omitempty"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		Pickup:      req.Pickup.toDomain(),
		Destination: req.Destination.toDomain(),
		Type:        domain.TripType(req.Type),
		PaymentKind: domain.PaymentKind(req.PaymentKind),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// ListTrips handles GET /v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripService.ListTrips(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// CancelTripRequest is the HTTP request body for cancelling a trip.
type CancelTripRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var req CancelTripRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	trip, err := h.tripService.CancelTrip(c.Request.Context(), service.CancelTripRequest{
		TripID: c.Param("id"),
		Reason: req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	trip, err := h.tripService.StartTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// ReceiptResponse is the wire shape of a trip receipt.
type ReceiptResponse struct {
	ID              string  `json:"id"`
	TripID          string  `json:"trip_id"`
	BaseFare        float64 `json:"base_fare"`
	DistanceCharge  float64 `json:"distance_charge"`
	DurationCharge  float64 `json:"duration_charge"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	SurgeAmount     float64 `json:"surge_amount"`
	TotalFare       float64 `json:"total_fare"`
	Distance        float64 `json:"distance"`
	Duration        float64 `json:"duration"`
	PaymentKind     string  `json:"payment_kind"`
	PaymentStatus   string  `json:"payment_status"`
}

// CompleteTripResponse is the HTTP response for completing a trip.
type CompleteTripResponse struct {
	Trip    TripResponse         `json:"trip"`
	Payment *TransactionResponse `json:"payment,omitempty"`
	Receipt *ReceiptResponse     `json:"receipt,omitempty"`
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	result, err := h.tripService.CompleteTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := CompleteTripResponse{Trip: tripResponse(result.Trip)}
	if result.Payment != nil {
		payment := transactionResponse(result.Payment)
		response.Payment = &payment
	}
	if result.Receipt != nil {
		response.Receipt = &ReceiptResponse{
			ID:              result.Receipt.ID,
			TripID:          result.Receipt.TripID,
			BaseFare:        result.Receipt.BaseFare,
			DistanceCharge:  result.Receipt.DistanceCharge,
			DurationCharge:  result.Receipt.DurationCharge,
			SurgeMultiplier: result.Receipt.SurgeMultiplier,
			SurgeAmount:     result.Receipt.SurgeAmount,
			TotalFare:       result.Receipt.TotalFare,
			Distance:        result.Receipt.DistanceKm,
			Duration:        result.Receipt.DurationMin,
			PaymentKind:     string(result.Receipt.PaymentKind),
			PaymentStatus:   string(result.Receipt.PaymentStatus),
		}
	}

	respondJSON(c, http.StatusOK, response)
}
