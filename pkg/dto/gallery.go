package dto

import "github.com/your-org/catalog/internal/models"

// AddPhotoRequest carries an image as a data URI. The server compresses it
// before it enters the gallery working set.
type AddPhotoRequest struct {
	Image string `json:"image" binding:"required"`
}

type PhotoResponse struct {
	Photo      models.Photo `json:"photo"`
	Compressed bool         `json:"compressed"`
}

type GalleryResponse struct {
	Photos []models.Photo `json:"photos"`
	Total  int            `json:"total"`
}

// ResetGalleryRequest seeds the working set from an existing record's photos.
// A nil or empty list yields the empty gallery (add form).
type ResetGalleryRequest struct {
	Photos []models.Photo `json:"photos"`
}
