package uploads

import (
	"context"
	"errors"
	"mime/multipart"
)

// Uploader sube archivos a un blob store y devuelve la URL pública.
type Uploader interface {
	Upload(ctx context.Context, folder string, userID int64, file *multipart.FileHeader) (string, error)
}

// DisabledUploader rechaza toda subida con un motivo fijo.
// Se usa cuando no hay bucket configurado.
type DisabledUploader struct {
	reason string
}

func NewDisabledUploader(reason string) *DisabledUploader {
	if reason == "" {
		reason = "uploads not configured"
	}
	return &DisabledUploader{reason: reason}
}

func (d *DisabledUploader) Upload(context.Context, string, int64, *multipart.FileHeader) (string, error) {
	return "", errors.New(d.reason)
}
