package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studybridge/apply-platform/internal/api/metrics"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// AuthHandler handles registration, login and the combined account view.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and returns a fresh credential.
//
// @Summary      Register a new applicant
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Token:   result.Token,
		User:    toUserResponse(result.User),
	})
}

// Login verifies credentials and returns a fresh token plus the stored
// profile when one exists.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Token:   result.Token,
		User:    toUserResponse(result.User),
		Profile: result.Profile,
	})
}

// GetAccount returns the caller's identity and profile.
//
// @Summary      Get the authenticated account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]any
// @Router       /auth/profile [get]
func (h *AuthHandler) GetAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, profile, err := h.authService.GetAccount(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		Success: true,
		User:    toUserResponse(user),
		Profile: profile,
	})
}

// UpdateAccount applies name changes and profile fields in one call.
//
// @Summary      Update the authenticated account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Fields to update"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	user, profile, err := h.authService.UpdateAccount(c.Request().Context(), userID, ports.AccountUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Profile:   req.profileUpdateRequest.toUpdate(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		Success: true,
		User:    toUserResponse(user),
		Profile: profile,
	})
}

// Logout acknowledges a client-side sign-out. Credentials are stateless:
// the token stays valid until its natural expiry, the client just discards
// it. A revocation list is a known omission of this design.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}
