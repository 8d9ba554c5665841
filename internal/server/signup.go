package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	signupdomain "github.com/smallbiznis/bellora/internal/signup/domain"
)

type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func (s *Server) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.signupsvc.Signup(c.Request.Context(), signupdomain.Request{
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if result.RawToken != "" {
		s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	}
	c.JSON(http.StatusCreated, result.User)
}
