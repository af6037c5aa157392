package dto

import "github.com/your-org/catalog/internal/models"

// SavePersonRequest carries a create or update submission from the form.
// Photos is the gallery working set; an empty array is valid (records may
// have no photos).
type SavePersonRequest struct {
	Name    string         `json:"name" binding:"required"`
	Mother  string         `json:"mother"`
	Father  string         `json:"father"`
	CPF     string         `json:"CPF"`
	RG      string         `json:"RG"`
	Address string         `json:"address"`
	History string         `json:"history"`
	DOB     string         `json:"dob"`
	Phone   string         `json:"phone"`
	Email   string         `json:"email"`
	Photos  []models.Photo `json:"photos"`
}

type PersonResponse struct {
	ID             string         `json:"id"`
	RegistrationID string         `json:"registration_id"`
	Name           string         `json:"name"`
	Mother         string         `json:"mother"`
	Father         string         `json:"father"`
	CPF            string         `json:"CPF"`
	RG             string         `json:"RG"`
	Address        string         `json:"address"`
	History        string         `json:"history"`
	DOB            string         `json:"dob"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	Photos         []models.Photo `json:"photos"`
	PhotoCount     int            `json:"photo_count"`
}

// SaveResponse wraps the persisted record. Fallback reports that the remote
// store failed and the record was kept locally; clients surface this as a
// warning rather than an error.
type SaveResponse struct {
	Person   PersonResponse `json:"person"`
	Fallback bool           `json:"fallback"`
}

type DeleteResponse struct {
	Status   string `json:"status"`
	Fallback bool   `json:"fallback"`
}
