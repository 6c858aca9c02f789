package controllers

import (
	"net/http"

	"pillflow-backend/models"
	"pillflow-backend/services"

	"github.com/gin-gonic/gin"
)

type UpdateScanOutStatusInput struct {
	Status models.ScanOutStatus `json:"status" binding:"required"`
}

func (ctl *Controller) CreateScanOut(c *gin.Context) {
	var input services.CreateScanOutInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := ctl.svc.ScanOuts.Create(c.Request.Context(), input)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (ctl *Controller) GetScanOuts(c *gin.Context) {
	scanOuts, err := ctl.svc.ScanOuts.List(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scanOuts)
}

func (ctl *Controller) UpdateScanOutStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input UpdateScanOutStatusInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ctl.svc.ScanOuts.UpdateStatus(c.Request.Context(), id, input.Status); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}
