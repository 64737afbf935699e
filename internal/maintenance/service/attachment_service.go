package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"github.com/NunoCastro30/TechFlow/internal/maintenance/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// AttachmentService stores maintenance request attachments in object
// storage and their metadata in the database.
type AttachmentService struct {
	repos       *repository.Repositories
	minioClient *minio.Client
	bucketName  string
}

func NewAttachmentService(repos *repository.Repositories, minioClient *minio.Client, bucketName string) *AttachmentService {
	return &AttachmentService{
		repos:       repos,
		minioClient: minioClient,
		bucketName:  bucketName,
	}
}

// Upload stores the file and records it against the request.
func (s *AttachmentService) Upload(ctx context.Context, requestID, userID string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.MaintenanceAttachment, error) {
	if _, err := s.repos.Request.FindByID(ctx, requestID); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("maintenance/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	if s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return nil, fmt.Errorf("upload file: %w", err)
		}
	}

	a := &entity.MaintenanceAttachment{
		ID:         uuid.New().String()[:32],
		RequestID:  requestID,
		FileName:   fileName,
		FilePath:   objectName,
		FileSize:   fileSize,
		MimeType:   contentType,
		UploadedBy: userID,
	}
	if err := s.repos.Attachment.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Download streams an attachment back from object storage.
func (s *AttachmentService) Download(ctx context.Context, id string) (io.ReadCloser, *entity.MaintenanceAttachment, error) {
	a, err := s.repos.Attachment.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if s.minioClient == nil {
		return nil, a, fmt.Errorf("storage not configured")
	}

	object, err := s.minioClient.GetObject(ctx, s.bucketName, a.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}

	return object, a, nil
}

func (s *AttachmentService) ListByRequest(ctx context.Context, requestID string) ([]entity.MaintenanceAttachment, error) {
	return s.repos.Attachment.FindByRequest(ctx, requestID)
}
