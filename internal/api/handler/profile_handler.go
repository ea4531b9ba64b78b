package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studybridge/apply-platform/internal/api/metrics"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// ProfileHandler handles profile reads/writes and the questionnaire wizard.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get returns the caller's profile document.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  map[string]any
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Success: true, Profile: profile})
}

// Update merge-upserts profile fields outside the step machine.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Fields to update"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]any
// @Router       /profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), userID, req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Success: true, Profile: profile})
}

// Progress reports where the caller is in the onboarding wizard. A user
// with no profile yet gets the defaults, never an error.
//
// @Summary      Get questionnaire progress
// @Tags         questionnaire
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  progressResponse
// @Router       /profile/questionnaire/progress [get]
func (h *ProfileHandler) Progress(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	progress, err := h.service.GetProgress(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progressResponse{
		Success:        true,
		CurrentStep:    progress.CurrentStep,
		CompletedSteps: progress.CompletedSteps,
		Profile:        progress.Profile,
	})
}

// SaveStep persists a single wizard step.
//
// @Summary      Save a questionnaire step
// @Tags         questionnaire
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveStepRequest  true  "Step number and step data"
// @Success      200   {object}  stepResponse
// @Failure      400   {object}  map[string]any
// @Router       /profile/questionnaire/step [post]
func (h *ProfileHandler) SaveStep(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req saveStepRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	profile, err := h.service.SaveStep(c.Request().Context(), userID, req.Step, req.Data.toUpdate())
	if err != nil {
		return err
	}

	metrics.StepsSavedTotal.WithLabelValues(strconv.Itoa(req.Step)).Inc()
	return c.JSON(http.StatusOK, stepResponse{
		Success:     true,
		CurrentStep: profile.CurrentStep,
		Profile:     profile,
	})
}

// Complete finishes the wizard, marking every step done.
//
// @Summary      Complete the questionnaire
// @Tags         questionnaire
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Final profile fields"
// @Success      200   {object}  completeResponse
// @Failure      400   {object}  map[string]any
// @Router       /profile/questionnaire/complete [post]
func (h *ProfileHandler) Complete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	profile, err := h.service.Complete(c.Request().Context(), userID, req.toUpdate())
	if err != nil {
		return err
	}

	metrics.CompletionsTotal.Inc()
	return c.JSON(http.StatusOK, completeResponse{
		Success: true,
		Message: "questionnaire completed",
		Profile: profile,
	})
}
