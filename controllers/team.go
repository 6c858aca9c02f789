package controllers

import (
	"net/http"

	"pillflow-backend/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetTeamMembers(c *gin.Context) {
	members, err := ctl.svc.Team.List(c.Request.Context())
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (ctl *Controller) CreateTeamMember(c *gin.Context) {
	var input services.TeamMemberInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := ctl.svc.Team.Create(c.Request.Context(), input)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (ctl *Controller) UpdateTeamMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.UpdateTeamMemberInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ctl.svc.Team.Update(c.Request.Context(), id, input); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member updated successfully"})
}

func (ctl *Controller) DeleteTeamMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.svc.Team.Delete(c.Request.Context(), id); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted successfully"})
}

func (ctl *Controller) ToggleTeamMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	active, err := ctl.svc.Team.Toggle(c.Request.Context(), id)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isActive": active})
}
