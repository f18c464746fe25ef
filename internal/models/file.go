package models

import "mime/multipart"

// VideoUploadInput is the validated form of a multipart video upload.
type VideoUploadInput struct {
	FileName string                `validate:"required,lte=255"`
	FileSize int64                 `validate:"required,gt=0"`
	MimeType string                `validate:"required"`
	File     *multipart.FileHeader `validate:"required"`
}
