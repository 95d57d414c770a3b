package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
)

func (s *Server) CreateIntegration(c *gin.Context) {
	var req integrationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.integrationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListIntegrations(c *gin.Context) {
	resp, err := s.integrationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetIntegration(c *gin.Context) {
	resp, err := s.integrationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateIntegration(c *gin.Context) {
	var req integrationdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.integrationSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteIntegration removes the integration together with its usage
// entries and alerts.
func (s *Server) DeleteIntegration(c *gin.Context) {
	if err := s.integrationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Integration deleted"})
}

func (s *Server) ListIntegrationAlerts(c *gin.Context) {
	resp, err := s.alertSvc.ListByIntegration(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
