// Package handler exposes the session service over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"narrator-server/internal/models"
	"narrator-server/internal/service"
)

// RequestValidator plugs go-playground/validator into echo.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// SessionHandler handles the session HTTP API.
type SessionHandler struct {
	service service.SessionOrchestrator
	logger  *zap.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(s service.SessionOrchestrator, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: s,
		logger:  logger.Named("SessionHandler"),
	}
}

// RegisterRoutes registers the session routes.
func (h *SessionHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.POST("/:id/choices", h.submitChoice)
		sessions.GET("/:id/context", h.getContext)
		sessions.POST("/:id/consequences", h.applyConsequences)
		sessions.GET("/:id/summary", h.getSummary)
		sessions.DELETE("/:id", h.deleteSession)
	}
}

func (h *SessionHandler) createSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Invalid request body for createSession", zap.Error(err))
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.CreateSession(c.Request().Context(), req.PlayerID, req.RevelationLevel)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	snapshot, err := h.service.GetContext(c.Request().Context(), record.ID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: record.ID,
		Status:    record.Status,
		Context:   *snapshot,
	})
}

func (h *SessionHandler) submitChoice(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid session ID format"})
	}

	var req SubmitChoiceRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Invalid request body for submitChoice",
			zap.String("sessionID", sessionID.String()), zap.Error(err))
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.SubmitChoice(c.Request().Context(), sessionID, req.ChoiceText, req.ChoiceIndex)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SubmitChoiceResponse{
		SessionID: result.SessionID,
		TaskID:    result.TaskID,
		Context:   result.Context,
		Ending:    result.Ending,
		Mutation:  result.Mutation,
		Feedback:  result.Feedback,
		InputMode: result.InputMode,
	})
}

func (h *SessionHandler) getContext(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid session ID format"})
	}

	snapshot, err := h.service.GetContext(c.Request().Context(), sessionID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (h *SessionHandler) applyConsequences(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid session ID format"})
	}

	var req ApplyConsequencesRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Invalid request body for applyConsequences",
			zap.String("sessionID", sessionID.String()), zap.Error(err))
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	events := make([]models.NarrativeEvent, 0, len(req.Events))
	for _, e := range req.Events {
		events = append(events, models.NarrativeEvent{
			Type:        models.EventType(e.Type),
			Description: e.Description,
		})
	}

	snapshot, err := h.service.ApplyConsequences(c.Request().Context(), sessionID, req.Consequences, events)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (h *SessionHandler) getSummary(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid session ID format"})
	}

	record, err := h.service.GetSession(c.Request().Context(), sessionID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SessionSummaryResponse{
		SessionID: record.ID,
		PlayerID:  record.PlayerID,
		Status:    record.Status,
		EndingKey: record.EndingKey,
		Summary:   record.Summary,
	})
}

func (h *SessionHandler) deleteSession(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid session ID format"})
	}

	if err := h.service.DeleteSession(c.Request().Context(), sessionID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseSessionID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func (h *SessionHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, APIError{Message: "Session not found"})
	case errors.Is(err, models.ErrSessionFinished):
		return c.JSON(http.StatusConflict, APIError{Message: "Session has already finished"})
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid input data"})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, APIError{Message: "An unexpected internal error occurred"})
	}
}
