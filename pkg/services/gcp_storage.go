package services

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
)

var (
	storageClient *storage.Client
	bucketName    string
)

// InitGCPStorage initializes the GCP Storage client
func InitGCPStorage() error {
	bucketName = os.Getenv("GCP_BUCKET_NAME")
	if bucketName == "" {
		return fmt.Errorf("GCP_BUCKET_NAME not set")
	}

	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GCP storage client: %v", err)
	}

	storageClient = client
	return nil
}

// UploadSnapshot uploads the serialized dashboard snapshot to GCP Storage so
// the static dashboard page can fetch it, and returns the public URL.
func UploadSnapshot(data []byte, objectName string) (string, error) {
	if storageClient == nil {
		return "", fmt.Errorf("GCP storage client not initialized")
	}

	ctx := context.Background()
	obj := storageClient.Bucket(bucketName).Object(objectName)
	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"
	// Dashboards poll this object; keep intermediaries from caching stale data.
	writer.CacheControl = "no-cache"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("GCS upload failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("GCS upload finalization failed: %v", err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName)
	return publicURL, nil
}
