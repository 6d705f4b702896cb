package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	groupdomain "github.com/gokulraja-dev/infintree/internal/group/domain"
	"github.com/google/uuid"
)

type GroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type AttachDepartmentRequest struct {
	DepartmentID string `json:"department_id"`
}

func (s *Server) CreateGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	grp, err := s.groupsvc.Create(c.Request.Context(), groupdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grp)
}

func (s *Server) ListGroups(c *gin.Context) {
	groups, err := s.groupsvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (s *Server) GetGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		AbortWithError(c, newValidationError("group_id", "invalid", "group_id must be a uuid"))
		return
	}

	grp, err := s.groupsvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, grp)
}

func (s *Server) DeleteGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		AbortWithError(c, newValidationError("group_id", "invalid", "group_id must be a uuid"))
		return
	}

	if err := s.groupsvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) AttachGroupDepartment(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		AbortWithError(c, newValidationError("group_id", "invalid", "group_id must be a uuid"))
		return
	}

	var req AttachDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	departmentID, err := uuid.Parse(strings.TrimSpace(req.DepartmentID))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	if err := s.groupsvc.AttachDepartment(c.Request.Context(), groupID, departmentID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "attached"})
}

func (s *Server) ListGroupDepartments(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		AbortWithError(c, newValidationError("group_id", "invalid", "group_id must be a uuid"))
		return
	}

	ids, err := s.groupsvc.DepartmentIDs(c.Request.Context(), groupID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"department_ids": ids})
}
