package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

type AwsS3 struct {
	client s3API
	bucket string
	region string
}

func NewAwsS3(ctx context.Context, cfg S3Config) (*AwsS3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &AwsS3{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

func (a *AwsS3) UploadFile(ctx context.Context, objectKey, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return nil
}

func (a *AwsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectKey, err)
	}
	return nil
}

func (a *AwsS3) publicPrefix() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
}

func (a *AwsS3) GetPublicLinkKey(objectKey string) string {
	return a.publicPrefix() + objectKey
}

// GetObjectKeyFromLink returns "" for links outside the bucket.
func (a *AwsS3) GetObjectKeyFromLink(link string) string {
	key, ok := strings.CutPrefix(link, a.publicPrefix())
	if !ok {
		return ""
	}
	return key
}

func (a *AwsS3) SaveBase64(ctx context.Context, folder, dataURL string) (string, error) {
	ext, contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	objectKey := newObjectKey(folder, ext)
	if err := a.UploadFile(ctx, objectKey, contentType, data); err != nil {
		return "", err
	}
	return a.GetPublicLinkKey(objectKey), nil
}

func (a *AwsS3) Delete(ctx context.Context, link string) error {
	objectKey := a.GetObjectKeyFromLink(link)
	if objectKey == "" {
		return nil
	}
	return a.DeleteFile(ctx, objectKey)
}
