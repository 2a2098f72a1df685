// Package handlers wires the HTTP surface. Handlers bind JSON, delegate
// to services and translate errors to status codes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/apierrors"
	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
	"github.com/marco0antonio0/back-makeapi/internal/services"
)

// EndpointHandler handles endpoint schema routes.
type EndpointHandler struct {
	endpoints *services.EndpointService
}

// NewEndpointHandler creates an EndpointHandler.
func NewEndpointHandler(endpoints *services.EndpointService) *EndpointHandler {
	return &EndpointHandler{endpoints: endpoints}
}

func renderError(c *gin.Context, err error) {
	c.JSON(apierrors.StatusOf(err), gin.H{"error": apierrors.MessageOf(err)})
}

// Create creates an endpoint schema.
func (h *EndpointHandler) Create(c *gin.Context) {
	var req services.CreateEndpointInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	endpoint, err := h.endpoints.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, endpoint)
}

// List returns all endpoint schemas, newest first.
func (h *EndpointHandler) List(c *gin.Context) {
	endpoints, err := h.endpoints.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	if endpoints == nil {
		endpoints = []*models.Endpoint{}
	}
	c.JSON(http.StatusOK, endpoints)
}

// Get returns one endpoint schema by id.
func (h *EndpointHandler) Get(c *gin.Context) {
	endpoint, err := h.endpoints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, endpoint)
}

// Update applies a partial update to an endpoint schema.
func (h *EndpointHandler) Update(c *gin.Context) {
	var req services.UpdateEndpointInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	endpoint, err := h.endpoints.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, endpoint)
}

// Delete removes an endpoint schema by id.
func (h *EndpointHandler) Delete(c *gin.Context) {
	if err := h.endpoints.Delete(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Query runs a filter query over endpoint schemas.
func (h *EndpointHandler) Query(c *gin.Context) {
	var req query.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	endpoints, err := h.endpoints.Query(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	if endpoints == nil {
		endpoints = []*models.Endpoint{}
	}
	c.JSON(http.StatusOK, endpoints)
}
