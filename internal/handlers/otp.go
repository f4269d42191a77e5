package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"workpulse/internal/service"
)

type sendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type sendOTPResponse struct {
	Phone           string    `json:"phone"`
	SentAt          time.Time `json:"sentAt"`
	CooldownSeconds int       `json:"cooldownSeconds"`
	// Code is only present when the demo reveal is enabled.
	Code string `json:"code,omitempty"`
}

// SendOTP issues a challenge. The resend cooldown is a boundary policy:
// OTPService.Send itself is callable at any time.
func (h HandlerSet) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	phone := service.NormalizePhone(req.Phone)
	if phone == "" {
		h.renderError(c, service.ErrInvalidPhone)
		return
	}

	window := h.cfg.OTP.ResendCooldown
	ok, remaining, err := h.cooldown.Acquire(c.Request.Context(), "otp:"+phone, window)
	if err != nil {
		// A broken cooldown store must not block sign-in.
		h.log.Warn().Err(err).Msg("otp cooldown unavailable")
		ok = true
	}
	if !ok {
		retryAfter := seconds(remaining)
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      "resend_cooldown",
			"retryAfter": retryAfter,
		})
		return
	}

	challenge, err := h.otp.Send(c.Request.Context(), phone)
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := sendOTPResponse{
		Phone:           challenge.Phone,
		SentAt:          challenge.CreatedAt,
		CooldownSeconds: seconds(window),
	}
	if h.cfg.OTP.RevealCode {
		resp.Code = challenge.Code
	}
	c.JSON(http.StatusOK, resp)
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code"`
}

func (h HandlerSet) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.Phone, req.Code); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// PendingOTP backs the demo "here is your code" hint. It does not exist
// unless code reveal is enabled.
func (h HandlerSet) PendingOTP(c *gin.Context) {
	if !h.cfg.OTP.RevealCode {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}

	challenge, ok := h.otp.Pending(c.Request.Context(), c.Query("phone"))
	if !ok {
		h.renderError(c, service.ErrNoActiveChallenge)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"phone":     challenge.Phone,
		"code":      challenge.Code,
		"createdAt": challenge.CreatedAt,
		"demo":      true,
	})
}

func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
