package models

import "io"

type UploadInput struct {
	LocalPath   string `json:"local_path" validate:"required"`
	Key         string `json:"key" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size"`
}

type BlobObject struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}
