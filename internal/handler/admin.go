package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inride/internal/domain"
	"inride/internal/service"
)

// AdminHandler serves platform administration: admin accounts, driver
// verification verdicts, and the commission account.
type AdminHandler struct {
	profiles *service.ProfileService
	bookings *service.BookingService
	wallet   *service.WalletService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(profiles *service.ProfileService, bookings *service.BookingService, wallet *service.WalletService) *AdminHandler {
	return &AdminHandler{profiles: profiles, bookings: bookings, wallet: wallet}
}

type registerAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAdmin handles POST /v1/admin/admins.
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req registerAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	admin, err := h.profiles.RegisterAdmin(c.Request.Context(), service.RegisterAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    admin.ID,
		"name":  admin.Name,
		"email": admin.Email,
	})
}

type verdictRequest struct {
	Note string `json:"note"`
}

// ApproveDriver handles POST /v1/admin/drivers/:id/approve.
func (h *AdminHandler) ApproveDriver(c *gin.Context) {
	var req verdictRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBadRequest(c, err)
		return
	}

	if err := h.profiles.UpdateDriverStatus(c.Request.Context(), c.Param("id"), domain.DriverStatusApproved, req.Note); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(domain.DriverStatusApproved)})
}

// RejectDriver handles POST /v1/admin/drivers/:id/reject.
func (h *AdminHandler) RejectDriver(c *gin.Context) {
	var req verdictRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBadRequest(c, err)
		return
	}

	if err := h.profiles.UpdateDriverStatus(c.Request.Context(), c.Param("id"), domain.DriverStatusRejected, req.Note); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(domain.DriverStatusRejected)})
}

// DeleteDriver handles DELETE /v1/admin/drivers/:id.
func (h *AdminHandler) DeleteDriver(c *gin.Context) {
	if err := h.profiles.DeleteDriver(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Bookings handles GET /v1/admin/bookings.
func (h *AdminHandler) Bookings(c *gin.Context) {
	bookings, err := h.bookings.ListAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": toBookingResponses(bookings)})
}

// PlatformBalance handles GET /v1/admin/platform/balance.
func (h *AdminHandler) PlatformBalance(c *gin.Context) {
	balance, err := h.wallet.PlatformBalance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
