package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/catalog/internal/gallery"
	"github.com/your-org/catalog/internal/imaging"
	"github.com/your-org/catalog/internal/observability"
	"github.com/your-org/catalog/internal/storage"
	"github.com/your-org/catalog/pkg/dto"
)

// GalleryHandler manages the photo working set for the record being edited.
type GalleryHandler struct {
	gallery    *gallery.Gallery
	compressor *imaging.Compressor
	archive    *storage.ArchiveStore
}

func NewGalleryHandler(g *gallery.Gallery, compressor *imaging.Compressor, archive *storage.ArchiveStore) *GalleryHandler {
	return &GalleryHandler{gallery: g, compressor: compressor, archive: archive}
}

func (h *GalleryHandler) Current(c *gin.Context) {
	photos := h.gallery.Current()
	c.JSON(http.StatusOK, dto.GalleryResponse{Photos: photos, Total: len(photos)})
}

// Reset seeds the working set from a record's existing photos (edit form) or
// clears it (add form).
func (h *GalleryHandler) Reset(c *gin.Context) {
	var req dto.ResetGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.gallery.Reset(req.Photos)
	photos := h.gallery.Current()
	c.JSON(http.StatusOK, dto.GalleryResponse{Photos: photos, Total: len(photos)})
}

// AddPhoto compresses the upload and appends it to the working set. Input
// that cannot be decoded as an image is kept verbatim rather than rejected.
func (h *GalleryHandler) AddPhoto(c *gin.Context) {
	var req dto.AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored := req.Image
	compressed := false
	if out, err := h.compressor.Compress(req.Image); err == nil {
		stored = out
		compressed = true
		observability.PhotosCompressed.WithLabelValues("compressed").Inc()
	} else if errors.Is(err, imaging.ErrImageDecode) {
		observability.PhotosCompressed.WithLabelValues("original_kept").Inc()
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	photo := h.gallery.Add(stored)

	if h.archive != nil {
		if raw, contentType, ok := decodePayload(req.Image); ok {
			key := storage.PhotoKey("staging", photo.ID)
			if err := h.archive.PutPhoto(c.Request.Context(), key, raw, contentType); err != nil {
				c.Error(err)
			}
		}
	}

	c.JSON(http.StatusCreated, dto.PhotoResponse{Photo: photo, Compressed: compressed})
}

func (h *GalleryHandler) RemovePhoto(c *gin.Context) {
	if !h.gallery.Remove(c.Param("photoId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed", "empty": h.gallery.Empty()})
}

// decodePayload extracts raw bytes and content type from a data URI for
// archival of the original upload.
func decodePayload(dataURI string) ([]byte, string, bool) {
	contentType := "application/octet-stream"
	payload := dataURI

	if strings.HasPrefix(dataURI, "data:") {
		idx := strings.Index(dataURI, ",")
		if idx < 0 {
			return nil, "", false
		}
		meta := dataURI[len("data:"):idx]
		if semi := strings.Index(meta, ";"); semi >= 0 {
			meta = meta[:semi]
		}
		if meta != "" {
			contentType = meta
		}
		payload = dataURI[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	return raw, contentType, true
}
