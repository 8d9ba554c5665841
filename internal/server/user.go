package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
)

type listUsersQuery struct {
	PageToken    string `form:"page_token"`
	PageSize     int32  `form:"page_size"`
	Email        string `form:"email"`
	MobileNumber string `form:"mobile_number"`
}

func (s *Server) ListUsers(c *gin.Context) {
	var query listUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usersvc.List(c.Request.Context(), userdomain.ListUsersRequest{
		PageToken:    query.PageToken,
		PageSize:     query.PageSize,
		Email:        query.Email,
		MobileNumber: query.MobileNumber,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetUser(c *gin.Context) {
	user, err := s.usersvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type AdjustPointsRequest struct {
	Delta int64 `json:"delta"`
}

func (s *Server) AdjustPoints(c *gin.Context) {
	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.usersvc.AdjustPoints(c.Request.Context(), userdomain.AdjustPointsRequest{
		UserID: c.Param("id"),
		Delta:  req.Delta,
		Actor:  s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
