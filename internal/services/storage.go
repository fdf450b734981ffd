package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/meal-cart/internal/models"
)

// ListArchive stores shopping list snapshots in S3-compatible storage
type ListArchive struct {
	client     *minio.Client
	bucketName string
	region     string
	expiry     time.Duration
}

// NewListArchive creates a new S3 list archive
func NewListArchive(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool, expiry time.Duration) (*ListArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &ListArchive{
		client:     client,
		bucketName: bucketName,
		region:     region,
		expiry:     expiry,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ListArchive) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Export uploads a JSON snapshot of the list and returns a presigned download URL
func (s *ListArchive) Export(ctx context.Context, list *models.ShoppingListWithItems) (*models.ExportResult, error) {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shopping list: %w", err)
	}

	key := snapshotKey(list, uuid.NewString())
	info, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, s.expiry, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &models.ExportResult{
		Key:         info.Key,
		Size:        info.Size,
		DownloadURL: url.String(),
		ExpiresAt:   time.Now().UTC().Add(s.expiry),
	}, nil
}

// DeleteSnapshots removes every snapshot exported for a list
func (s *ListArchive) DeleteSnapshots(ctx context.Context, userID int, listID int64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := make(chan minio.ObjectInfo)
	var listErr error

	go func() {
		defer close(objectsCh)
		for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
			Prefix:    snapshotPrefix(userID, listID),
			Recursive: true,
		}) {
			if obj.Err != nil {
				listErr = obj.Err
				return
			}
			select {
			case objectsCh <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()

	for err := range s.client.RemoveObjects(ctx, s.bucketName, objectsCh, minio.RemoveObjectsOptions{}) {
		if err.Err != nil {
			return fmt.Errorf("failed to delete object %s: %w", err.ObjectName, err.Err)
		}
	}
	if listErr != nil {
		return fmt.Errorf("failed to list snapshots: %w", listErr)
	}

	return nil
}

func snapshotPrefix(userID int, listID int64) string {
	return fmt.Sprintf("lists/%d/%d/", userID, listID)
}

func snapshotKey(list *models.ShoppingListWithItems, id string) string {
	return snapshotPrefix(list.UserID, list.ID) + id + ".json"
}
