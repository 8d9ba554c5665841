package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
)

const contextUserIDKey = "user_id"

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID.String())
		c.Next()
	}
}

// AdminRequired checks the admin marker on every request, after
// AuthRequired has resolved the session. Missing marker, missing session
// or lookup failure all deny.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get(contextUserIDKey)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		id, err := snowflake.ParseString(userID.(string))
		if err != nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		if !s.gate.IsAdmin(c.Request.Context(), id) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// actor builds the caller identity for the current request. Admin status
// is read from the gate here, per request, never from the session.
func (s *Server) actor(c *gin.Context) userdomain.Actor {
	userID, ok := c.Get(contextUserIDKey)
	if !ok {
		return userdomain.Actor{}
	}
	actor := userdomain.Actor{UserID: userID.(string)}
	if id, err := snowflake.ParseString(actor.UserID); err == nil {
		actor.Admin = s.gate.IsAdmin(c.Request.Context(), id)
	}
	return actor
}
