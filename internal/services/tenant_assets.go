package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// TenantAssetService provisions per-tenant object storage. Bucket creation
// runs after the saga succeeds and is never saga-fatal.
type TenantAssetService interface {
	ProvisionTenantBucket(ctx context.Context, companyID uuid.UUID) error
}

type minioAssetService struct {
	client *minio.Client
}

func NewTenantAssetService(endpoint, accessKey, secretKey string, useSSL bool) (TenantAssetService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioAssetService{client: client}, nil
}

func tenantBucketName(companyID uuid.UUID) string {
	return fmt.Sprintf("tenant-%s", companyID.String())
}

func (m *minioAssetService) ProvisionTenantBucket(ctx context.Context, companyID uuid.UUID) error {
	bucket := tenantBucketName(companyID)
	found, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	}
	return nil
}
