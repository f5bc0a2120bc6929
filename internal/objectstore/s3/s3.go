// Package s3 implements the object store gateway on Amazon S3 or any
// S3-compatible service (MinIO, Localstack).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"orgdrive/internal/config"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/namespace"
)

// API is the subset of *s3.Client the gateway calls
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient the gateway calls
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// StoreConfig configures a Store built from explicit clients
type StoreConfig struct {
	Client    API
	Presigner Presigner
	Bucket    string
	KeyPrefix string
	WriteTTL  time.Duration
	ReadTTL   time.Duration
	Logger    *slog.Logger
}

// Store is the S3 object store gateway
type Store struct {
	client    API
	presigner Presigner
	bucket    string
	keyPrefix string
	writeTTL  time.Duration
	readTTL   time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewStore creates a gateway from already-built clients
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Client == nil || cfg.Presigner == nil {
		return nil, fmt.Errorf("s3 store: client and presigner are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		client:    cfg.Client,
		presigner: cfg.Presigner,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
		writeTTL:  cfg.WriteTTL,
		readTTL:   cfg.ReadTTL,
		now:       time.Now,
		logger:    cfg.Logger,
	}, nil
}

// NewFromConfig builds the AWS client chain from configuration. Static
// credentials are used when both keys are set, the default chain otherwise.
func NewFromConfig(ctx context.Context, cfg config.ObjectStoreConfig, logger *slog.Logger) (*Store, error) {
	var configOptions []func(*awsConfig.LoadOptions) error

	configOptions = append(configOptions, awsConfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = 5
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing for MinIO/Localstack
			o.UsePathStyle = true
		}
	})

	store, err := NewStore(StoreConfig{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    cfg.Bucket,
		KeyPrefix: cfg.KeyPrefix,
		WriteTTL:  cfg.PresignWriteTTL,
		ReadTTL:   cfg.PresignReadTTL,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	store.logger.Info("S3 object store initialized",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"endpoint", cfg.Endpoint,
		"prefix", cfg.KeyPrefix,
	)

	return store, nil
}

func (s *Store) objectKey(key string) string {
	return s.keyPrefix + key
}

// PutMarker writes the zero-byte object that represents a folder
func (s *Store) PutMarker(ctx context.Context, folderKey string) error {
	key := s.objectKey(namespace.MarkerKey(folderKey))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return domain.Upstream("put folder marker", err)
	}

	s.logger.Debug("folder marker written", "bucket", s.bucket, "key", key)
	return nil
}

// PresignWrite signs a PUT for the given key
func (s *Store) PresignWrite(ctx context.Context, key, contentType string) (*models.PresignedURL, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	issued := s.now()
	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(s.writeTTL))
	if err != nil {
		return nil, domain.Upstream("presign upload", err)
	}

	return toPresignedURL(req, http.MethodPut, issued.Add(s.writeTTL)), nil
}

// PresignRead signs a GET for the given key
func (s *Store) PresignRead(ctx context.Context, key string) (*models.PresignedURL, error) {
	issued := s.now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}, s3.WithPresignExpires(s.readTTL))
	if err != nil {
		return nil, domain.Upstream("presign download", err)
	}

	return toPresignedURL(req, http.MethodGet, issued.Add(s.readTTL)), nil
}

func toPresignedURL(req *v4.PresignedHTTPRequest, fallbackMethod string, expiresAt time.Time) *models.PresignedURL {
	method := req.Method
	if method == "" {
		method = fallbackMethod
	}
	return &models.PresignedURL{
		URL:       req.URL,
		Method:    method,
		ExpiresAt: expiresAt.UTC(),
	}
}
