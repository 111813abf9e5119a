package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler exchanges a Google authorization code for application tokens.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

func newGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
	}
}

// ExchangeCode godoc
// @Summary Exchange a Google authorization code
// @Description Exchanges the code for Google tokens, validates the ID token, links or creates the user and returns application tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.GoogleExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid authorization code"
// @Failure 401 {object} ErrorResponse "Invalid Google identity"
// @Failure 502 {object} ErrorResponse "Google unavailable"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request payload")
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "invalid_grant") || strings.Contains(lower, "bad request") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.ErrorContext(ctx, "ID token not found in Google's token response")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Google did not return an ID token"})
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.WarnContext(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	info := domain.GoogleUserInfo{ID: payload.Subject}
	info.Email, _ = payload.Claims["email"].(string)
	info.VerifiedEmail, _ = payload.Claims["email_verified"].(bool)
	info.GivenName, _ = payload.Claims["given_name"].(string)
	info.FamilyName, _ = payload.Claims["family_name"].(string)
	if info.ID == "" || info.Email == "" {
		logger.ErrorContext(ctx, "Essential claims missing from Google ID token")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google identity is missing email"})
		return
	}

	user, err := h.userService.FindOrCreateGoogleUser(ctx, info)
	if err != nil {
		respondWithError(c, logger, err, "Failed to process Google sign-in")
		return
	}

	resp, err := issueTokens(c, h.tokenService, h.userService, user)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate token")
		return
	}
	logger.InfoContext(ctx, "User signed in with Google", slog.Int64("user_id", user.UserID))
	c.JSON(http.StatusOK, resp)
}
