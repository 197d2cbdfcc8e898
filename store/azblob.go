package store

import (
	"bytes"
	"context"
	"fmt"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"log/slog"
)

const (
	// blobContentType is set on uploaded blobs
	blobContentType = "application/json"
	// blobRetries is the number of retries of a failed storage request
	blobRetries = 3
)

// AzureBlob is a Store keeping each key as a blob in an Azure Storage
// container
type AzureBlob struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// NewAzureBlob creates the client and ensures the container exists
func NewAzureBlob(ctx context.Context, cfg AzureConfig, logger *slog.Logger) (*AzureBlob, error) {

	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry:     policy.RetryOptions{MaxRetries: blobRetries},
			Telemetry: policy.TelemetryOptions{ApplicationID: "posecoach"},
		},
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, opts)

	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	_, err = client.CreateContainer(ctx, cfg.Container, nil)

	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("create container %s: %w", cfg.Container, err)
	}

	logger.Info("storage container ready", "container", cfg.Container)

	return &AzureBlob{
		client:    client,
		container: cfg.Container,
		logger:    logger,
	}, nil
}

// Load downloads the blob under key
func (a *AzureBlob) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)

	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}

	return buf.Bytes(), nil
}

// Save uploads the blob under key
func (a *AzureBlob) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	contentType := blobContentType
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

// Delete removes the blob under key
func (a *AzureBlob) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.client.DeleteBlob(ctx, a.container, key, nil)

	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// Close does nothing, the client holds no connections to release
func (a *AzureBlob) Close() error {
	return nil
}
