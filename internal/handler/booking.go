package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inride/internal/domain"
	"inride/internal/service"
)

// BookingHandler serves the booking lifecycle and the offer marketplace.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type offerResponse struct {
	DriverID             string  `json:"driver_id"`
	Fare                 float64 `json:"fare"`
	EstimatedArrivalMins int     `json:"estimated_arrival_mins"`
}

type bookingResponse struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customer_id"`
	DriverID            string          `json:"driver_id,omitempty"`
	Pickup              string          `json:"pickup"`
	PickupCoords        coordinates     `json:"pickup_coords"`
	Destination         string          `json:"destination"`
	DestCoords          coordinates     `json:"destination_coords"`
	Fare                float64         `json:"fare"`
	Status              string          `json:"status"`
	PaymentMethod       string          `json:"payment_method"`
	DriverReachedPickup bool            `json:"driver_reached_pickup"`
	Rating              int             `json:"rating,omitempty"`
	Offers              []offerResponse `json:"offers"`
	CreatedAt           time.Time       `json:"created_at"`
	CancelledAt         *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason        string          `json:"cancel_reason,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	offers := make([]offerResponse, 0, len(b.Offers))
	for _, o := range b.Offers {
		offers = append(offers, offerResponse{
			DriverID:             o.DriverID,
			Fare:                 o.Fare,
			EstimatedArrivalMins: o.EstimatedArrivalMins,
		})
	}

	resp := bookingResponse{
		ID:                  b.ID,
		CustomerID:          b.CustomerID,
		DriverID:            b.DriverID,
		Pickup:              b.Pickup,
		PickupCoords:        coordinates{Lat: b.PickupCoords.Lat, Lng: b.PickupCoords.Lng},
		Destination:         b.Destination,
		DestCoords:          coordinates{Lat: b.DestCoords.Lat, Lng: b.DestCoords.Lng},
		Fare:                b.Fare,
		Status:              string(b.Status),
		PaymentMethod:       string(b.PaymentMethod),
		DriverReachedPickup: b.DriverReachedPickup,
		Rating:              b.Rating,
		Offers:              offers,
		CreatedAt:           b.CreatedAt,
		CancelReason:        b.CancelReason,
	}
	if !b.CancelledAt.IsZero() {
		t := b.CancelledAt
		resp.CancelledAt = &t
	}

	return resp
}

func toBookingResponses(bookings []*domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

type createBookingRequest struct {
	CustomerID    string      `json:"customer_id" binding:"required"`
	Pickup        string      `json:"pickup" binding:"required"`
	PickupCoords  coordinates `json:"pickup_coords" binding:"required"`
	Destination   string      `json:"destination" binding:"required"`
	DestCoords    coordinates `json:"destination_coords" binding:"required"`
	PaymentMethod string      `json:"payment_method" binding:"required"`
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.CreateBooking(
		c.Request.Context(),
		req.CustomerID,
		req.Pickup, domain.Location{Lat: req.PickupCoords.Lat, Lng: req.PickupCoords.Lng},
		req.Destination, domain.Location{Lat: req.DestCoords.Lat, Lng: req.DestCoords.Lng},
		domain.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

type submitOfferRequest struct {
	DriverID             string  `json:"driver_id" binding:"required"`
	Fare                 float64 `json:"fare" binding:"required"`
	EstimatedArrivalMins int     `json:"estimated_arrival_mins" binding:"required"`
}

// SubmitOffer handles POST /v1/bookings/:id/offers.
func (h *BookingHandler) SubmitOffer(c *gin.Context) {
	var req submitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.SubmitOffer(c.Request.Context(), c.Param("id"), req.DriverID, req.Fare, req.EstimatedArrivalMins)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

type acceptOfferRequest struct {
	CustomerID string  `json:"customer_id" binding:"required"`
	DriverID   string  `json:"driver_id" binding:"required"`
	Fare       float64 `json:"fare" binding:"required"`
}

// AcceptOffer handles POST /v1/bookings/:id/accept.
func (h *BookingHandler) AcceptOffer(c *gin.Context) {
	var req acceptOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.AcceptOffer(c.Request.Context(), c.Param("id"), req.CustomerID, req.DriverID, req.Fare)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

type driverActionRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

// ReachedPickup handles POST /v1/bookings/:id/reached-pickup.
func (h *BookingHandler) ReachedPickup(c *gin.Context) {
	var req driverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.MarkReachedPickup(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

// Start handles POST /v1/bookings/:id/start.
func (h *BookingHandler) Start(c *gin.Context) {
	var req driverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.StartTrip(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

// Complete handles POST /v1/bookings/:id/complete.
func (h *BookingHandler) Complete(c *gin.Context) {
	var req driverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.CompleteTrip(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

type cancelBookingRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Reason     string `json:"reason"`
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), c.Param("id"), req.CustomerID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

type rateBookingRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
}

// Rate handles POST /v1/bookings/:id/rate.
func (h *BookingHandler) Rate(c *gin.Context) {
	var req rateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.bookings.RateBooking(c.Request.Context(), c.Param("id"), req.CustomerID, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}
