package controllers

import (
	"net/http"

	"pillflow-backend/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) CreateMedication(c *gin.Context) {
	var input services.CreateMedicationInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := ctl.svc.Medications.Create(c.Request.Context(), input)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (ctl *Controller) UpdateMedication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.UpdateMedicationInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ctl.svc.Medications.Update(c.Request.Context(), id, input); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Medication updated successfully"})
}

func (ctl *Controller) DeleteMedication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.svc.Medications.Delete(c.Request.Context(), id); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Medication deleted successfully"})
}

func (ctl *Controller) ToggleMedication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	active, err := ctl.svc.Medications.Toggle(c.Request.Context(), id)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isActive": active})
}
