package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/inkly/inkly/internal/common"
	sc "github.com/inkly/inkly/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAvatarService(t *testing.T) (*AvatarService, *memStore) {
	t.Helper()
	db, _ := newMockDB(t)
	store := newMemStore()
	cfg := &sc.Config{
		S3Region:        "us-east-1",
		S3RootUser:      "minioadmin",
		S3RootPassword:  "minioadmin",
		S3BaseEndpoint:  "http://127.0.0.1:9000",
		S3Bucket:        "avatars",
		AvatarURLExpiry: 10 * time.Minute,
	}
	return NewAvatarService(db, &fakeManager{store: store}, cfg), store
}

// stubPresign replaces the S3 seams for the duration of the test and records
// what was asked of them.
type presignCalls struct {
	region       string
	baseEndpoint string
	putKey       string
	getKey       string
	bucket       string
	expires      time.Duration
}

func stubPresign(t *testing.T, putErr, getErr error) *presignCalls {
	t.Helper()
	calls := &presignCalls{}

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNewS3, origNewPre
		presignPutObject, presignGetObject = origPut, origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		calls.region = lo.Region
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint != nil {
			calls.baseEndpoint = *opts.BaseEndpoint
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	expiresOf := func(optFns []func(*s3.PresignOptions)) time.Duration {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		return po.Expires
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if putErr != nil {
			return nil, putErr
		}
		calls.putKey, calls.bucket = *in.Key, *in.Bucket
		calls.expires = expiresOf(optFns)
		return &v4.PresignedHTTPRequest{URL: "http://put/" + *in.Key, Method: http.MethodPut}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if getErr != nil {
			return nil, getErr
		}
		calls.getKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://get/" + *in.Key, Method: http.MethodGet}, nil
	}
	return calls
}

func TestAvatarKey(t *testing.T) {
	k1, k2 := AvatarKey("u-1"), AvatarKey("u-1")
	assert.True(t, strings.HasPrefix(k1, "avatars/u-1/"), k1)
	assert.NotEqual(t, k1, k2)
}

func TestUploadURL(t *testing.T) {
	svc, store := newAvatarService(t)
	u := store.addUser(adaEmail, "Ada")
	calls := stubPresign(t, nil, nil)

	before := time.Now()
	got, err := svc.UploadURL(context.Background(), principal(adaEmail))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.Key, "avatars/"+u.ID+"/"))
	assert.Equal(t, "http://put/"+got.Key, got.UploadURL)
	assert.Equal(t, "http://get/"+got.Key, got.ViewURL)
	assert.Equal(t, got.Key, calls.putKey)
	assert.Equal(t, got.Key, calls.getKey)
	assert.Equal(t, "avatars", calls.bucket)
	assert.Equal(t, "us-east-1", calls.region)
	assert.Equal(t, "http://127.0.0.1:9000", calls.baseEndpoint)
	assert.Equal(t, 10*time.Minute, calls.expires)
	assert.WithinDuration(t, before.Add(10*time.Minute), got.ExpiresAt, 5*time.Second)
}

func TestUploadURL_DefaultExpiry(t *testing.T) {
	svc, store := newAvatarService(t)
	svc.config.AvatarURLExpiry = 0
	store.addUser(adaEmail, "Ada")
	calls := stubPresign(t, nil, nil)

	_, err := svc.UploadURL(context.Background(), principal(adaEmail))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, calls.expires)
}

func TestUploadURL_Errors(t *testing.T) {
	svc, store := newAvatarService(t)
	ctx := context.Background()

	stubPresign(t, nil, nil)
	_, err := svc.UploadURL(ctx, principal(adaEmail))
	assert.ErrorIs(t, err, common.ErrorNotFound, "no account yet")

	store.addUser(adaEmail, "Ada")

	stubPresign(t, errors.New("put-fail"), nil)
	_, err = svc.UploadURL(ctx, principal(adaEmail))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put-fail")

	stubPresign(t, nil, errors.New("get-fail"))
	_, err = svc.UploadURL(ctx, principal(adaEmail))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get-fail")

	stubPresign(t, nil, nil)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = svc.UploadURL(ctx, principal(adaEmail))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestViewURL(t *testing.T) {
	svc, _ := newAvatarService(t)
	calls := stubPresign(t, nil, nil)

	url, err := svc.ViewURL(context.Background(), "avatars/u-1/abc")
	require.NoError(t, err)
	assert.Equal(t, "http://get/avatars/u-1/abc", url)
	assert.Equal(t, "avatars/u-1/abc", calls.getKey)

	_, err = svc.ViewURL(context.Background(), "secrets/x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
