package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	spacedomain "github.com/unusco/unus/internal/space/domain"
)

func (s *Server) CreateSpace(c *gin.Context) {
	var req spacedomain.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.spaceSvc.Create(c.Request.Context(), req, principalEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetSpaceByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	resp, err := s.spaceSvc.GetByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveSpace(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if err := s.spaceSvc.Remove(c.Request.Context(), code, principalEmail(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) JoinSpace(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	resp, err := s.spaceSvc.Join(c.Request.Context(), code, principalEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) LeaveSpace(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if err := s.spaceSvc.Leave(c.Request.Context(), code, principalEmail(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetSpaceMembers(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	resp, err := s.spaceSvc.ListMembers(c.Request.Context(), code, principalEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
