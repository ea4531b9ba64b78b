package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studybridge/apply-platform/internal/api/metrics"
	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// ApplicationHandler handles university application tracking.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Create opens a draft application.
//
// @Summary      Create an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createApplicationRequest  true  "University and program"
// @Success      201   {object}  applicationResponse
// @Failure      400   {object}  map[string]any
// @Router       /applications [post]
func (h *ApplicationHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.service.Create(c.Request().Context(), userID, ports.CreateApplicationInput{
		UniversityID: req.UniversityID,
		Program:      req.Program,
	})
	if err != nil {
		return err
	}

	metrics.ApplicationsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, applicationResponse{Success: true, Application: app})
}

// List returns all of the caller's applications.
//
// @Summary      List applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  applicationListResponse
// @Router       /applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	apps, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationListResponse{Success: true, Applications: apps})
}

// Get returns a single application by reference.
//
// @Summary      Get an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        reference  path      string  true  "Application reference"
// @Success      200        {object}  applicationResponse
// @Failure      404        {object}  map[string]any
// @Router       /applications/{reference} [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	app, err := h.service.Get(c.Request().Context(), userID, c.Param("reference"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationResponse{Success: true, Application: app})
}

// UpdateStatus moves an application through its lifecycle.
//
// @Summary      Update application status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reference  path      string                          true  "Application reference"
// @Param        body       body      updateApplicationStatusRequest  true  "Target status"
// @Success      200        {object}  applicationResponse
// @Failure      404        {object}  map[string]any
// @Failure      422        {object}  map[string]any
// @Router       /applications/{reference}/status [put]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateApplicationStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.service.UpdateStatus(c.Request().Context(), userID, c.Param("reference"), domain.ApplicationStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.ApplicationTransitionsTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, applicationResponse{Success: true, Application: app})
}
