package controllers

import (
	"net/http"

	"pillflow-backend/services"
	"pillflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (ctl *Controller) CreatePackCheck(c *gin.Context) {
	var input services.CreatePackCheckInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := ctl.svc.PackChecks.Create(c.Request.Context(), input)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (ctl *Controller) GetPackChecks(c *gin.Context) {
	checks, err := ctl.svc.PackChecks.List(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

// CheckPackExists answers GET /pack-checks/exists?customerId=&websterPackId=.
func (ctl *Controller) CheckPackExists(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customerId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customerId")
		return
	}
	packID := c.Query("websterPackId")
	if packID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "websterPackId is required")
		return
	}
	res, err := ctl.svc.ScanOuts.CheckPackExists(c.Request.Context(), customerID, packID)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
