package services

import (
	"bytes"
	"context"
	"io"
	"time"

	"gstinvoice/internal/common"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// PDFStorage stores rendered invoice PDFs by object name.
type PDFStorage interface {
	Put(ctx context.Context, objectName string, data []byte) error
	// Get returns common.ErrPDFNotFound when the object does not exist.
	Get(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
	Exists(ctx context.Context, objectName string) (bool, error)
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioPDFStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioPDFStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (PDFStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}
	return &minioPDFStorage{client: client, bucket: bucket}, nil
}

func (m *minioPDFStorage) Put(ctx context.Context, objectName string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	return errors.Wrapf(err, "upload %s", objectName)
}

func (m *minioPDFStorage) Get(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinioError(err, objectName)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateMinioError(err, objectName)
	}
	return data, nil
}

func (m *minioPDFStorage) Delete(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "delete %s", objectName)
}

func (m *minioPDFStorage) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, objectName, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat %s", objectName)
}

func (m *minioPDFStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Wrapf(err, "presign %s", objectName)
	}
	return u.String(), nil
}

func (m *minioPDFStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return errors.Wrap(err, "check bucket")
	}
	if !found {
		return errors.Wrap(m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}), "create bucket")
	}
	return nil
}

func (m *minioPDFStorage) Ping(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return errors.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func translateMinioError(err error, objectName string) error {
	if isNoSuchKey(err) {
		return common.ErrPDFNotFound
	}
	return errors.Wrapf(err, "download %s", objectName)
}
