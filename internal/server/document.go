package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/gokulraja-dev/infintree/internal/document/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateDocumentRequest struct {
	Title        string            `json:"title"`
	Content      datatypes.JSONMap `json:"content"`
	ParentNodeID *string           `json:"parent_node_id"`
}

type UpdateDocumentRequest struct {
	Title   *string           `json:"title"`
	Content datatypes.JSONMap `json:"content"`
}

func (s *Server) CreateDocument(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		AbortWithError(c, newValidationError("title", "required", "title is required"))
		return
	}

	result, err := s.documentsvc.Create(c.Request.Context(), documentdomain.CreateRequest{
		DepartmentID: departmentID,
		Title:        req.Title,
		Content:      req.Content,
		ParentNodeID: req.ParentNodeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (s *Server) GetDocument(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	depth := c.DefaultQuery("depth", documentdomain.DepthZero)
	node, err := s.documentsvc.Get(c.Request.Context(), documentdomain.GetRequest{
		DepartmentID: departmentID,
		NodeID:       c.Param("node_id"),
		Depth:        depth,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, node)
}

func (s *Server) UpdateDocument(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	nodeID, err := s.documentsvc.Update(c.Request.Context(), documentdomain.UpdateRequest{
		DepartmentID: departmentID,
		NodeID:       c.Param("node_id"),
		Title:        req.Title,
		Content:      req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"node_id": nodeID, "status": "updated"})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}

	if err := s.documentsvc.Delete(c.Request.Context(), departmentID, c.Param("node_id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
