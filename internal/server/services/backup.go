package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/planwise/internal/common"
	sc "github.com/planwise/planwise/internal/server/config"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// backupDocument is the JSON snapshot written to object storage for one user.
type backupDocument struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Tags       []*models.Tag  `json:"tags"`
	Tasks      []*models.Task `json:"tasks"`
}

// BackupService exports per-user snapshots to S3-compatible object storage
// (MinIO in the default deployment). Snapshots cover every active tag plus
// the tasks created within the configured backup window, deleted included.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *BackupService {
	return &BackupService{db: db, repomanager: m, config: config}
}

func backupStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("users/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *BackupService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	}), nil
}

// ExportUser writes the user's snapshot to the bucket and returns the object
// key together with a presigned GET URL valid for 15 minutes.
func (s *BackupService) ExportUser(ctx context.Context, userID string) (string, string, error) {
	tags, err := s.repomanager.Tags(s.db).ListActive(ctx, userID)
	if err != nil {
		return "", "", common.ErrInternal
	}

	cutoff := time.Now().Add(-s.config.BackupWindow)
	tasks, err := s.repomanager.Tasks(s.db).ListCreatedSince(ctx, userID, cutoff)
	if err != nil {
		return "", "", common.ErrInternal
	}

	doc := &backupDocument{
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		Tags:       tags,
		Tasks:      tasks,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", "", common.ErrInternal
	}

	client, err := s.getS3Client()
	if err != nil {
		return "", "", fmt.Errorf("error creating S3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := backupStorageKey(userID)
	contentType := "application/json"

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("error uploading backup: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("error presigning backup url: %w", err)
	}

	return key, req.URL, nil
}

// ExportAll runs ExportUser for every registered user. Errors are collected
// per user; one failing user does not stop the rest.
func (s *BackupService) ExportAll(ctx context.Context) (int, error) {
	ids, err := s.repomanager.Users(s.db).ListIDs(ctx)
	if err != nil {
		return 0, common.ErrInternal
	}

	var exported int
	var firstErr error

	for _, id := range ids {
		if _, _, err := s.ExportUser(ctx, id); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("error exporting user %s: %w", id, err)
			}
			continue
		}
		exported++
	}

	return exported, firstErr
}
