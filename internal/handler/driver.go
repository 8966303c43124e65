package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inride/internal/domain"
	"inride/internal/service"
)

// DriverHandler serves driver registration, marketplace views, wallet,
// and location reporting.
type DriverHandler struct {
	profiles *service.ProfileService
	bookings *service.BookingService
	wallet   *service.WalletService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(profiles *service.ProfileService, bookings *service.BookingService, wallet *service.WalletService) *DriverHandler {
	return &DriverHandler{profiles: profiles, bookings: bookings, wallet: wallet}
}

type registerDriverRequest struct {
	Name          string            `json:"name" binding:"required"`
	Email         string            `json:"email" binding:"required"`
	Phone         string            `json:"phone" binding:"required"`
	Password      string            `json:"password" binding:"required"`
	LicenseNumber string            `json:"license_number" binding:"required"`
	VehicleInfo   string            `json:"vehicle_info" binding:"required"`
	Documents     map[string]string `json:"documents"`
}

type driverResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	LicenseNumber    string    `json:"license_number"`
	VehicleInfo      string    `json:"vehicle_info"`
	Status           string    `json:"status"`
	VerificationNote string    `json:"verification_note,omitempty"`
	Rating           float64   `json:"rating"`
	TotalRatings     int       `json:"total_ratings"`
	Balance          float64   `json:"balance"`
	CreatedAt        time.Time `json:"created_at"`
}

func toDriverResponse(d *domain.Driver) driverResponse {
	return driverResponse{
		ID:               d.ID,
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		LicenseNumber:    d.LicenseNumber,
		VehicleInfo:      d.VehicleInfo,
		Status:           string(d.Status),
		VerificationNote: d.VerificationNote,
		Rating:           d.Rating,
		TotalRatings:     d.TotalRatings,
		Balance:          d.Balance,
		CreatedAt:        d.CreatedAt,
	}
}

// Register handles POST /v1/drivers/register.
func (h *DriverHandler) Register(c *gin.Context) {
	var req registerDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	driver, err := h.profiles.RegisterDriver(c.Request.Context(), service.RegisterDriverInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		LicenseNumber: req.LicenseNumber,
		VehicleInfo:   req.VehicleInfo,
		Documents:     req.Documents,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDriverResponse(driver))
}

// Get handles GET /v1/drivers/:id.
func (h *DriverHandler) Get(c *gin.Context) {
	driver, err := h.profiles.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// List handles GET /v1/drivers.
func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.profiles.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]driverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, toDriverResponse(d))
	}

	c.JSON(http.StatusOK, gin.H{"drivers": out})
}

// OpenBookings handles GET /v1/drivers/:id/open-bookings.
func (h *DriverHandler) OpenBookings(c *gin.Context) {
	bookings, err := h.bookings.ListOpenBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": toBookingResponses(bookings)})
}

// TopUp handles POST /v1/drivers/:id/topup.
func (h *DriverHandler) TopUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	balance, err := h.wallet.TopUpDriver(c.Request.Context(), c.Param("id"), req.Amount, domain.PaymentMethod(req.Method))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

type updateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles POST /v1/drivers/:id/location.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.profiles.UpdateDriverLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Location handles GET /v1/drivers/:id/location.
func (h *DriverHandler) Location(c *gin.Context) {
	loc, err := h.profiles.GetDriverLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lat": loc.Lat, "lng": loc.Lng})
}
