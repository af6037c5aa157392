package dto

import "github.com/your-org/catalog/internal/ocr"

// ExtractRequest carries the document image to run OCR on.
type ExtractRequest struct {
	Image string `json:"image" binding:"required"`
}

// ExtractResponse mirrors the extraction envelope: Success false never comes
// with an HTTP error status, the form simply stays manual.
type ExtractResponse struct {
	Success          bool                      `json:"success"`
	Data             map[string]string         `json:"data,omitempty"`
	ConfidenceScores map[string]ocr.Confidence `json:"confidence_scores,omitempty"`
	OriginalText     string                    `json:"original_text,omitempty"`
	Error            string                    `json:"error,omitempty"`
}
