package evidence

import (
	"context"
	"fmt"
	"mime"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/google/uuid"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"go.uber.org/zap"
)

// BlobStore persists incident media in Azure Blob Storage
type BlobStore struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStore creates an Azure-backed evidence store
func NewBlobStore(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobStore, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStore{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Save uploads one media part under the incident's prefix and returns the
// blob name as reference.
func (s *BlobStore) Save(ctx context.Context, incidentID string, part inference.MediaPart) (string, error) {
	extension := extensionForMIME(part.MIME)
	blobName := fmt.Sprintf("incidents/%s/%s%s", incidentID, uuid.NewString(), extension)

	s.logger.Info("uploading incident evidence",
		zap.String("incident_id", incidentID),
		zap.String("blob_name", blobName),
		zap.String("mime", part.MIME),
		zap.Int("size_bytes", len(part.Data)),
	)

	blobClient := s.client.ServiceClient().NewContainerClient(s.containerName).NewBlockBlobClient(blobName)

	contentType := part.MIME
	if _, err := blobClient.UploadBuffer(ctx, part.Data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": &contentType,
		},
	}); err != nil {
		s.logger.Error("failed to upload evidence",
			zap.String("incident_id", incidentID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload evidence: %w", err)
	}

	return blobName, nil
}

func extensionForMIME(mimeType string) string {
	extensions, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(extensions) == 0 {
		return ".bin"
	}
	return extensions[0]
}

var _ Store = (*BlobStore)(nil)
