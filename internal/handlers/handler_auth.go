package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/SscSPs/avec_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *AuthHandler {
	return &AuthHandler{userService: us, tokenService: ts}
}

// registerAuthRoutes sets up the public authentication routes. Credential
// endpoints share one per-IP limiter.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := newAuthHandler(services.User, services.TokenService)
	g := newGoogleOAuthHandler(services.GoogleOAuthHandler, services.User, services.TokenService)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimit, h.Login)
		auth.POST("/register", loginLimit, h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/google/exchange-code", loginLimit, g.ExchangeCode)
	}
}

// issueTokens creates an access/refresh pair and stores the refresh token hash.
func issueTokens(c *gin.Context, ts portssvc.TokenSvcFacade, us portssvc.UserSvcFacade, user *domain.User) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()
	access, accessExp, err := ts.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := ts.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := us.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refresh), refreshExp); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:                 access,
		ExpiresAt:             accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExp,
		User:                  dto.ToUserResponse(user),
	}, nil
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns an access token and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.StatusFor(err) == http.StatusUnauthorized {
			logger.Warn("Failed login attempt", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		respondWithError(c, logger, err, "Failed to authenticate user")
		return
	}

	resp, err := issueTokens(c, h.tokenService, h.userService, user)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate token")
		return
	}
	logger.Info("User logged in", slog.Int64("user_id", user.UserID))
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register new user
// @Description Creates a new account in the member role.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username or email already taken"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	newUser, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(newUser))
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a new token pair. The old refresh token stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to refresh token")
		return
	}

	resp, err := issueTokens(c, h.tokenService, h.userService, user)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, resp)
}
