package dto

// WebSocket event types.
const (
	EventPersonSaved   = "person_saved"
	EventPersonDeleted = "person_deleted"
	EventOCRProgress   = "ocr_progress"
	EventStorageReset  = "storage_reset"
)

// WSEvent is the envelope broadcast to WebSocket clients.
type WSEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// OCRProgress reports recognition progress for in-flight extractions.
type OCRProgress struct {
	Percent int    `json:"percent"`
	Status  string `json:"status"`
}
