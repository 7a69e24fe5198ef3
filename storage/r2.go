// Package storage provides the object storage clients used to keep the
// actual document bytes out of the application host
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

// ObjectStorage is the part of the external storage service the
// handlers depend on. Put returns the public URL of the stored object.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

type R2Client struct {
	c          *s3.Client
	uploader   *manager.Uploader
	bucket     *string
	publicBase string
}

func NewR2() (*R2Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("storage.access_key_id"),
			viper.GetString("storage.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("storage.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("storage.account_id")))
		o.Region = "auto"
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &R2Client{
		c:          client,
		uploader:   manager.NewUploader(client),
		bucket:     bucket,
		publicBase: strings.TrimSuffix(viper.GetString("storage.public_base_url"), "/"),
	}, nil
}

func (r *R2Client) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := r.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        r.bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object, %w", err)
	}

	return r.publicBase + "/" + key, nil
}

func (r *R2Client) Delete(ctx context.Context, key string) error {
	_, err := r.c.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: r.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object, %w", err)
	}

	return nil
}
