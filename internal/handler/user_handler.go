package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the users surface. The literal path "users/me" is
// served by the :username routes and dispatched on the reserved value, which
// is why "me" is a forbidden username at signup.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)                  // Admin
		users.POST("", h.Create)               // Admin
		users.GET("/:username", h.Get)         // Admin; "me" -> own profile
		users.PATCH("/:username", h.Update)    // Admin; "me" -> own profile, role read-only
		users.DELETE("/:username", h.Delete)   // Admin; "me" not allowed
	}
}

// List retrieves users, searchable by username
// GET /v1/users?search=smith&page=1
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	users, err := h.userService.List(c.Request.Context(), middleware.Principal(c), search, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Create creates a user on the admin surface
// POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get retrieves a user by username; "me" resolves to the caller's own profile
// GET /v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	principal := middleware.Principal(c)
	username := c.Param("username")

	if username == "me" {
		profile, err := h.userService.GetProfile(c.Request.Context(), principal)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
		return
	}

	user, err := h.userService.GetByUsername(c.Request.Context(), principal, username)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update patches a user; on "me" the role field is silently out of reach
// PATCH /v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	principal := middleware.Principal(c)
	username := c.Param("username")

	if username == "me" {
		var req dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		profile, err := h.userService.UpdateProfile(c.Request.Context(), principal, req)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
		return
	}

	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), principal, username, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes a user; the profile alias only supports GET/PATCH
// DELETE /v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), middleware.Principal(c), username); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
