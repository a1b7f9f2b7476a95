package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/leavedesk/leave-backend-go/internal/pkg/storage"
)

const maxAttachmentBytes = 10 << 20

var (
	ErrUnsupportedFileType = errors.New("unsupported attachment type")
	ErrFileTooLarge        = errors.New("attachment exceeds the size limit")
)

var attachmentContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type Service interface {
	// UploadLeaveAttachment validates and stores a supporting document,
	// returning the reference kept on the leave request.
	UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, header *multipart.FileHeader) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewService(fileStorage storage.FileStorage) Service {
	return &fileServiceImpl{storage: fileStorage}
}

func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := attachmentContentTypes[ext]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	if header.Size > maxAttachmentBytes {
		return "", ErrFileTooLarge
	}

	if declared := header.Header.Get("Content-Type"); declared != "" {
		contentType = declared
	}

	path := fmt.Sprintf("leave-attachments/%s/%s%s", employeeID, uuid.NewString(), ext)
	return s.storage.Upload(ctx, file, path, contentType)
}

