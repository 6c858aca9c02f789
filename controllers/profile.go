package controllers

import (
	"net/http"

	"pillflow-backend/services"

	"github.com/gin-gonic/gin"
)

// GetMe returns the caller's profile, or null for anonymous callers.
func (ctl *Controller) GetMe(c *gin.Context) {
	user, err := ctl.svc.Users.Current(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ctl *Controller) UpdateMe(c *gin.Context) {
	var input services.UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ctl.svc.Users.Update(c.Request.Context(), input); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
