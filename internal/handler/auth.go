package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inride/internal/service"
)

// AuthHandler serves login and OTP verification.
type AuthHandler struct {
	auth *service.AuthService
	otp  *service.OTPService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, otp *service.OTPService) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp}
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type loginResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	identity, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		UserID: identity.ID,
		Name:   identity.Name,
		Role:   string(identity.Role),
	})
}

type sendOTPRequest struct {
	Name    string `json:"name"`
	Target  string `json:"target" binding:"required"`
	Channel string `json:"channel" binding:"required"`
}

// SendOTP handles POST /v1/auth/otp/send.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.otp.SendCode(c.Request.Context(), req.Name, req.Target, req.Channel); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

type verifyOTPRequest struct {
	Target string `json:"target" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

// VerifyOTP handles POST /v1/auth/otp/verify.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.otp.VerifyCode(c.Request.Context(), req.Target, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}
