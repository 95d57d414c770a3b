package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/costwatch/costwatch/internal/auth/token"
	userdomain "github.com/costwatch/costwatch/internal/user/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	User         *userdomain.PublicUser `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	access, err := s.tokens.IssueAccess(user.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	refresh, err := s.tokens.IssueRefresh(user.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *Server) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	userID, err := s.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		AbortWithError(c, token.ErrInvalidToken)
		return
	}

	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, refreshResponse{AccessToken: access})
}

// Logout acknowledges the request. Tokens are stateless and there is no
// server-side revocation list, so nothing is invalidated here.
func (s *Server) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}
