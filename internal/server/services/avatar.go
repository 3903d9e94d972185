package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/server/auth"
	sc "github.com/inkly/inkly/internal/server/config"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const avatarKeyPrefix = "avatars/"

// AvatarUpload is a presigned PUT target plus the GET URL of the same object.
type AvatarUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ViewURL   string    `json:"viewUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AvatarService hands out presigned object-storage URLs for avatar images.
type AvatarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAvatarService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *AvatarService {
	return &AvatarService{db: db, repomanager: m, config: config}
}

// AvatarKey returns a fresh object key under the user's avatar prefix.
func AvatarKey(userID string) string {
	return fmt.Sprintf("%s%s/%s", avatarKeyPrefix, userID, uuid.New())
}

func (s *AvatarService) expiry() time.Duration {
	if s.config.AvatarURLExpiry > 0 {
		return s.config.AvatarURLExpiry
	}
	return 15 * time.Minute
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// UploadURL presigns a PUT for a new avatar object of the caller.
func (s *AvatarService) UploadURL(ctx context.Context, p auth.Principal) (*AvatarUpload, error) {
	u, err := loadAccount(ctx, s.repomanager.Users(s.db), p)
	if err != nil {
		return nil, err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring object storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := AvatarKey(u.ID)
	expires := s.expiry()

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	view, err := s.presignGet(ctx, pc, key)
	if err != nil {
		return nil, err
	}

	return &AvatarUpload{
		Key:       key,
		UploadURL: put.URL,
		ViewURL:   view,
		ExpiresAt: time.Now().Add(expires),
	}, nil
}

// ViewURL presigns a GET for an existing avatar key.
func (s *AvatarService) ViewURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, avatarKeyPrefix) {
		return "", fmt.Errorf("%w: not an avatar key", common.ErrorNotFound)
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error configuring object storage: %w", err)
	}

	return s.presignGet(ctx, pc, key)
}

func (s *AvatarService) presignGet(ctx context.Context, pc *s3.PresignClient, key string) (string, error) {
	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.expiry()))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return req.URL, nil
}
