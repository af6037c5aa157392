package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/catalog/internal/api/ws"
	"github.com/your-org/catalog/internal/ocr"
	"github.com/your-org/catalog/pkg/dto"
)

// OCRHandler runs document field extraction. Progress is pushed to WebSocket
// clients subscribed to ocr_progress events.
type OCRHandler struct {
	engine *ocr.Engine
	hub    *ws.Hub
}

func NewOCRHandler(engine *ocr.Engine, hub *ws.Hub) *OCRHandler {
	return &OCRHandler{engine: engine, hub: hub}
}

// Extract runs OCR on the submitted image and parses catalog fields out of
// the text. Extraction failures come back as success=false with HTTP 200;
// only a concurrent in-flight extraction is a client error.
func (h *OCRHandler) Extract(c *gin.Context) {
	var req dto.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var onProgress ocr.ProgressFunc
	if h.hub != nil {
		onProgress = func(percent int, status string) {
			h.hub.BroadcastEvent(&dto.WSEvent{
				Type: dto.EventOCRProgress,
				Data: dto.OCRProgress{Percent: percent, Status: status},
			})
		}
	}

	result := h.engine.ExtractFormData(c.Request.Context(), req.Image, onProgress)
	if !result.Success && result.Error == ocr.ErrConcurrentOperation.Error() {
		c.JSON(http.StatusConflict, gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, dto.ExtractResponse{
		Success:          result.Success,
		Data:             result.Data,
		ConfidenceScores: result.ConfidenceScores,
		OriginalText:     result.OriginalText,
		Error:            result.Error,
	})
}

// Status reports the engine state for diagnostics.
func (h *OCRHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.engine.State()})
}
