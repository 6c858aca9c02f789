package controllers

import (
	"io"
	"net/http"
	"time"

	"pillflow-backend/events"
	"pillflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keepAliveInterval = 25 * time.Second

// StreamChanges pushes the caller's record changes as server-sent events
// until the client disconnects or the server shuts down. Clients re-query the affected list on
// each event.
func (ctl *Controller) StreamChanges(c *gin.Context) {
	userID, err := utils.CallerFromContext(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	select {
	case <-ctl.closing:
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Server shutting down")
		return
	default:
	}
	if ctl.bus == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Change feed unavailable")
		return
	}

	changes, cancel, err := ctl.bus.Subscribe(c.Request.Context())
	if err != nil {
		ctl.log.Error("failed to subscribe to changes", zap.Error(err))
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Change feed unavailable")
		return
	}
	defer cancel()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ctl.closing:
			return false
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now()})
			return true
		case change, ok := <-changes:
			if !ok {
				return false
			}
			if ctl.visible(change, userID) {
				c.SSEvent("change", change)
			}
			return true
		}
	})
}

// visible reports whether userID may see change. Pack checks are shared
// across owners unless they are scoped.
func (ctl *Controller) visible(change events.Change, userID uuid.UUID) bool {
	if change.OwnerUserID == userID {
		return true
	}
	return change.Collection == events.PackChecks && ctl.svc.PackChecks.Shared()
}
