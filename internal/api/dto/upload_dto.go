package dto

// Base64UploadRequest carries an inline-encoded image.
type Base64UploadRequest struct {
	Image string `json:"image"`
}

// UploadResponse returns the access URL produced by the media host.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// SeedResponse summarizes inserted fixtures.
type SeedResponse struct {
	Message string `json:"message"`
	Reports int    `json:"reports"`
	Users   int    `json:"users"`
}
