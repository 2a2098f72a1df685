package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
	"github.com/marco0antonio0/back-makeapi/internal/services"
)

// ItemHandler handles item record routes.
type ItemHandler struct {
	items *services.ItemService
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(items *services.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Create stores a new item under an endpoint.
func (h *ItemHandler) Create(c *gin.Context) {
	var req services.CreateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// List returns items, filtered by endpointId and paginated when page is
// given.
func (h *ItemHandler) List(c *gin.Context) {
	page, ok := intQuery(c, "page")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	items, err := h.items.List(c.Request.Context(), services.ListItemsInput{
		EndpointID: c.Query("endpointId"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one item by id.
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update replaces the item's value mapping.
func (h *ItemHandler) Update(c *gin.Context) {
	var req services.UpdateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.items.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes an item by id.
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Query runs a filter query over items.
func (h *ItemHandler) Query(c *gin.Context) {
	var req query.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.items.Query(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	c.JSON(http.StatusOK, items)
}
