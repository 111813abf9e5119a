package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PUT("/me", h.updateProfile)
		users.PUT("/me/password", h.changePassword)
		users.POST("/me/logout", h.logout)
		users.GET("", h.listUsers)             // Admin only
		users.PATCH("/:user_id", h.updateUser) // Admin only
	}
}

// getMe godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateProfile godoc
// @Summary Update the current user's profile
// @Description First and last name are required. Phone is optional.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (h *userHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// changePassword godoc
// @Summary Change the current user's password
// @Description Checks the current password. Signs out sessions holding a refresh token.
// @Tags users
// @Accept json
// @Param password body dto.ChangePasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/password [put]
func (h *userHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), actor, req); err != nil {
		respondWithError(c, logger, err, "Failed to change password")
		return
	}
	logger.Info("Password changed", slog.Int64("user_id", actor.UserID))
	c.Status(http.StatusNoContent)
}

// logout godoc
// @Summary Sign out
// @Description Revokes the stored refresh token. The access token stays valid until it expires.
// @Tags users
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/logout [post]
func (h *userHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	if err := h.userService.ClearRefreshToken(c.Request.Context(), actor.UserID); err != nil {
		respondWithError(c, logger, err, "Failed to sign out")
		return
	}
	logger.Info("User signed out", slog.Int64("user_id", actor.UserID))
	c.Status(http.StatusNoContent)
}

// listUsers godoc
// @Summary List users
// @Description Paginated list of users. Administrators only.
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actor, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// updateUser godoc
// @Summary Update a user
// @Description Changes profile fields, role or status. Administrators only.
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{user_id} [patch]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), actor, userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update user")
		return
	}
	logger.Info("User updated", slog.Int64("target_user_id", userID))
	c.JSON(http.StatusOK, dto.ToUserResponse(updated))
}
