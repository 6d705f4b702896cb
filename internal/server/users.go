package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/google/uuid"
)

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AssignGrantRequest struct {
	RoleName     string  `json:"role_name"`
	DepartmentID *string `json:"department_id"`
	GroupID      *string `json:"group_id"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		AbortWithError(c, newValidationError("email", "required", "email is required"))
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), authdomain.CreateUserRequest{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserType:  authdomain.UserTypeUser,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// AssignGrant attaches a role grant to an existing user. User creation and
// grant assignment are separate calls; a failed grant leaves the user in
// place.
func (s *Server) AssignGrant(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid", "user_id must be a uuid"))
		return
	}

	var req AssignGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.RoleName) == "" {
		AbortWithError(c, newValidationError("role_name", "required", "role_name is required"))
		return
	}

	departmentID, err := parseOptionalUUID(req.DepartmentID)
	if err != nil {
		AbortWithError(c, newValidationError("department_id", "invalid", "department_id must be a uuid"))
		return
	}
	groupID, err := parseOptionalUUID(req.GroupID)
	if err != nil {
		AbortWithError(c, newValidationError("group_id", "invalid", "group_id must be a uuid"))
		return
	}

	grant, err := s.iamsvc.AssignGrant(c.Request.Context(), iamdomain.AssignGrantRequest{
		UserID:       userID,
		RoleName:     strings.TrimSpace(req.RoleName),
		DepartmentID: departmentID,
		GroupID:      groupID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grant)
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
