package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inride/internal/oracle"
	"inride/internal/service"
)

// LocationHandler serves location resolution backed by the oracle.
type LocationHandler struct {
	resolver oracle.Oracle
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(resolver oracle.Oracle) *LocationHandler {
	return &LocationHandler{resolver: resolver}
}

// Search handles GET /v1/locations/search?q=.
func (h *LocationHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, service.ErrInvalidName)
		return
	}

	suggestions, err := h.resolver.SearchLocations(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Geocode handles GET /v1/locations/geocode?q=.
func (h *LocationHandler) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, service.ErrInvalidName)
		return
	}

	place, err := h.resolver.Geocode(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, place)
}

// Reverse handles GET /v1/locations/reverse?lat=&lng=.
func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondError(c, service.ErrInvalidCoordinates)
		return
	}

	place, err := h.resolver.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, place)
}
