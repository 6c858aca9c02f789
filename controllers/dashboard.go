package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetDashboardOverview(c *gin.Context) {
	stats, err := ctl.svc.Dashboard.Get(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
