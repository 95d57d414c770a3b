package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
)

func (s *Server) RecordUsage(c *gin.Context) {
	var req usagedomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.usageSvc.Record(c.Request.Context(), c.Param("integrationId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetUsage(c *gin.Context) {
	resp, err := s.usageSvc.List(c.Request.Context(), c.Param("integrationId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUsageRange filters entries by the closed interval [start, end]
// taken from the query string. Dates compare as plain strings.
func (s *Server) GetUsageRange(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")

	resp, err := s.usageSvc.ListRange(c.Request.Context(), c.Param("integrationId"), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateUsageEntry(c *gin.Context) {
	var req usagedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.usageSvc.UpdateAt(c.Request.Context(), c.Param("integrationId"), c.Param("usageId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteUsageEntry(c *gin.Context) {
	resp, err := s.usageSvc.DeleteAt(c.Request.Context(), c.Param("integrationId"), c.Param("usageId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
