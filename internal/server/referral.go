package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	referraldomain "github.com/smallbiznis/bellora/internal/referral/domain"
)

func (s *Server) MyReferrals(c *gin.Context) {
	resp, err := s.referralsvc.MyReferrals(c.Request.Context(), referraldomain.ListReferralsRequest{
		Actor: s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
