package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (ctl *Controller) ExportHistory(c *gin.Context) {
	data, err := ctl.svc.Export.History(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("pillflow-history-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
