package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetPasswordRequest struct {
	Email           string `json:"email"`
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.authsvc.SetPassword(c.Request.Context(), authdomain.SetPasswordRequest{
		Email:           strings.TrimSpace(req.Email),
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password updated"})
}

func (s *Server) ListRoles(c *gin.Context) {
	scope := strings.ToLower(strings.TrimSpace(c.Query("scope")))
	if scope == "" {
		AbortWithError(c, newValidationError("scope", "required", "scope query parameter is required"))
		return
	}

	roles, err := s.iamsvc.RolesByScope(c.Request.Context(), scope)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (s *Server) JWKS(c *gin.Context) {
	jwks, err := s.keys.JWKS()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, jwks)
}
