package controllers

import (
	"errors"
	"net/http"
	"sync"

	"pillflow-backend/events"
	"pillflow-backend/services"
	"pillflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller serves the HTTP API on top of the domain services.
type Controller struct {
	svc *services.Services
	bus events.Bus
	log *zap.Logger

	closing   chan struct{}
	closeOnce sync.Once
}

func New(svc *services.Services, bus events.Bus, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{svc: svc, bus: bus, log: log, closing: make(chan struct{})}
}

// CloseStreams ends every open change stream and refuses new ones. It is
// registered with http.Server.RegisterOnShutdown.
func (ctl *Controller) CloseStreams() {
	ctl.closeOnce.Do(func() { close(ctl.closing) })
}

// respondWithServiceError maps a service error onto a status code. Errors
// that match both NotFound and AccessDenied are reported as 404.
func (ctl *Controller) respondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		utils.RespondWithError(c, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		utils.RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrDuplicateCustomerID),
		errors.Is(err, services.ErrDuplicateInitials),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidFrequency),
		errors.Is(err, services.ErrInvalidInitialsFormat),
		errors.Is(err, services.ErrInvalidInput):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		ctl.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return false
	}
	return true
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
