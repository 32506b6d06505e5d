package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"google.golang.org/api/idtoken"

	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
	"github.com/thetpaing-dev/grant_portal_app/internal/middleware"
	"github.com/thetpaing-dev/grant_portal_app/internal/utils"
	"github.com/thetpaing-dev/grant_portal_app/pkg/config"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	googleOAuthService portssvc.GoogleOAuthSvcFacade
	cfg                *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, gs portssvc.GoogleOAuthSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:        us,
		tokenService:       ts,
		googleOAuthService: gs,
		cfg:                cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, services.Token, services.GoogleOAuth, cfg)

	// 5 attempts per minute per IP on credential endpoints
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/google", limitMiddleware, h.GoogleLogin)
		auth.POST("/google/exchange-code", limitMiddleware, h.ExchangeCodeGoogle)
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}

// issueTokens generates the access token, rotates the refresh token and
// sets it as an HTTP-only cookie scoped to the auth endpoints.
func (h *AuthHandler) issueTokens(c *gin.Context, userID string) (string, error) {
	ctx := c.Request.Context()
	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return "", err
	}

	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return "", err
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return "", err
	}

	// Cookie value carries the user ID so the refresh endpoint can look up
	// the stored hash without an access token.
	maxAge := int(time.Until(refreshExpiry).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, user.UserID+":"+refreshToken, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)

	return accessToken, nil
}

// Login godoc
// @Summary User login
// @Description Authenticates a user with username and password, returns a JWT access token and sets a refresh token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Response{data=dto.LoginResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.Fail("invalid username or password"))
		return
	}

	accessToken, err := h.issueTokens(c, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.LoginResponse{
		Token:  accessToken,
		UserID: user.UserID,
		User:   dto.ToUserResponse(user),
	}))
}

// GoogleLogin godoc
// @Summary Google sign-in
// @Description Validates a Google ID token, provisions the user on first sign-in, and returns a JWT access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.GoogleLoginRequest true "Google ID Token"
// @Success 200 {object} dto.Response{data=dto.LoginResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	payload, err := h.tokenService.ValidateGoogleIDToken(ctx, req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.loginWithGooglePayload(c, payload)
}

// ExchangeCodeGoogle godoc
// @Summary Google sign-in via authorization code
// @Description Exchanges a Google OAuth authorization code for tokens, validates the carried ID token, provisions the user on first sign-in, and returns a JWT access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization Code"
// @Success 200 {object} dto.Response{data=dto.LoginResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/google/exchange-code [post]
func (h *AuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		c.JSON(http.StatusUnauthorized, dto.Fail("google token response carried no id token"))
		return
	}

	payload, err := h.tokenService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		respondError(c, err)
		return
	}

	h.loginWithGooglePayload(c, payload)
}

// loginWithGooglePayload finishes a Google sign-in from a validated ID
// token payload: look up or provision the user, then issue tokens.
func (h *AuthHandler) loginWithGooglePayload(c *gin.Context, payload *idtoken.Payload) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, dto.Fail("google token carried no email"))
		return
	}
	if name == "" {
		name = email
	}

	user, err := h.userService.GetUserByUsername(ctx, email)
	if err != nil {
		// First sign-in: provision an applicant account keyed by email.
		// The random password is never shown; these users log in via Google.
		randomPassword, rErr := utils.GenerateSecureRandomString(32)
		if rErr != nil {
			respondError(c, rErr)
			return
		}
		user, err = h.userService.CreateUser(ctx, dto.CreateUserRequest{
			Username: email,
			Password: randomPassword,
			Name:     name,
		})
		if err != nil {
			logger.Error("Failed to provision user from google sign-in", slog.String("error", err.Error()))
			respondError(c, err)
			return
		}
		logger.Info("Provisioned new user from google sign-in", slog.String("user_id", user.UserID))
	}

	accessToken, err := h.issueTokens(c, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.LoginResponse{
		Token:  accessToken,
		UserID: user.UserID,
		User:   dto.ToUserResponse(user),
	}))
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account. The role defaults to APPLICANT when omitted.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateUserRequest true "User Registration Info"
// @Success 201 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response "Username already exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	newUser, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToUserResponse(newUser)))
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges the refresh token cookie for a fresh access token, rotating the refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response{data=dto.RefreshTokenResponse}
// @Failure 401 {object} dto.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.Fail("missing refresh token"))
		return
	}
	userID, rawToken, found := strings.Cut(cookie, ":")
	if !found || userID == "" || rawToken == "" {
		c.JSON(http.StatusUnauthorized, dto.Fail("malformed refresh token"))
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), userID, rawToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err)
		return
	}

	accessToken, err := h.issueTokens(c, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.RefreshTokenResponse{Token: accessToken}))
}

// Logout godoc
// @Summary Log out
// @Description Clears the refresh token cookie and the stored refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName); err == nil {
		if userID, _, found := strings.Cut(cookie, ":"); found && userID != "" {
			if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
				logger := middleware.GetLoggerFromCtx(c.Request.Context())
				logger.Warn("Failed to clear stored refresh token", slog.String("error", err.Error()))
			}
		}
	}
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, dto.OKMessage("logged out"))
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}
