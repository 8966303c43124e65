package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inride/internal/domain"
	"inride/internal/service"
)

// CustomerHandler serves customer registration, bookings, and wallet.
type CustomerHandler struct {
	profiles *service.ProfileService
	bookings *service.BookingService
	wallet   *service.WalletService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(profiles *service.ProfileService, bookings *service.BookingService, wallet *service.WalletService) *CustomerHandler {
	return &CustomerHandler{profiles: profiles, bookings: bookings, wallet: wallet}
}

type registerCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}

// Register handles POST /v1/customers/register.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req registerCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	customer, err := h.profiles.RegisterCustomer(c.Request.Context(), service.RegisterCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.profiles.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Bookings handles GET /v1/customers/:id/bookings.
func (h *CustomerHandler) Bookings(c *gin.Context) {
	bookings, err := h.bookings.ListCustomerBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": toBookingResponses(bookings)})
}

type topUpRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method"`
}

// TopUp handles POST /v1/customers/:id/topup.
func (h *CustomerHandler) TopUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	balance, err := h.wallet.TopUpCustomer(c.Request.Context(), c.Param("id"), req.Amount, domain.PaymentMethod(req.Method))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
