package controllers

import (
	"net/http"

	"pillflow-backend/services"
	"pillflow-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetCustomers lists the caller's customers, filtered by ?search= and ?status=.
func (ctl *Controller) GetCustomers(c *gin.Context) {
	var query services.CustomerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	customers, err := ctl.svc.Customers.List(c.Request.Context(), query)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (ctl *Controller) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := ctl.svc.Customers.Get(c.Request.Context(), id)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (ctl *Controller) CreateCustomer(c *gin.Context) {
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := ctl.svc.Customers.Create(c.Request.Context(), input)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (ctl *Controller) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ctl.svc.Customers.Update(c.Request.Context(), id, input); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

func (ctl *Controller) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.svc.Customers.Delete(c.Request.Context(), id); err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (ctl *Controller) GetCustomerMedications(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	medications, err := ctl.svc.Medications.ListForCustomer(c.Request.Context(), id)
	if err != nil {
		ctl.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, medications)
}
