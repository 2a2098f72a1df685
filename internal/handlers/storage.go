package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/storage"
)

// StorageHandler serves file uploads for image fields.
type StorageHandler struct {
	store *storage.Client
}

// NewStorageHandler creates a StorageHandler.
func NewStorageHandler(store *storage.Client) *StorageHandler {
	return &StorageHandler{store: store}
}

func renderStorageError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Upload accepts a multipart file and stores it under the endpoint's
// prefix. Responds with the generated object key.
func (h *StorageHandler) Upload(c *gin.Context) {
	endpointID := c.Param("endpointId")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.ObjectKey(endpointID, header.Filename)
	if _, err := h.store.Upload(c.Request.Context(), key, file, header.Size, contentType); err != nil {
		renderStorageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// Download streams an object back to the caller.
func (h *StorageHandler) Download(c *gin.Context) {
	key := c.Param("endpointId") + "/" + c.Param("key")

	obj, err := h.store.Download(c.Request.Context(), key)
	if err != nil {
		renderStorageError(c, err)
		return
	}
	defer obj.Reader.Close()

	c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Reader, nil)
}

// List returns the objects stored under an endpoint.
func (h *StorageHandler) List(c *gin.Context) {
	objects, err := h.store.List(c.Request.Context(), c.Param("endpointId")+"/")
	if err != nil {
		renderStorageError(c, err)
		return
	}
	if objects == nil {
		objects = []storage.ObjectInfo{}
	}
	c.JSON(http.StatusOK, objects)
}

// Delete removes a stored object.
func (h *StorageHandler) Delete(c *gin.Context) {
	key := c.Param("endpointId") + "/" + c.Param("key")
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		renderStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
