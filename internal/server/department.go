package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	departmentdomain "github.com/gokulraja-dev/infintree/internal/department/domain"
	"github.com/google/uuid"
)

type DepartmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	dept, err := s.departmentsvc.Create(c.Request.Context(), departmentdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dept)
}

func (s *Server) ListDepartments(c *gin.Context) {
	departments, err := s.departmentsvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

func (s *Server) GetDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	dept, err := s.departmentsvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}

func (s *Server) UpdateDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	dept, err := s.departmentsvc.Update(c.Request.Context(), id, departmentdomain.UpdateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}

func (s *Server) DeleteDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	if err := s.departmentsvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
