package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestGetObject(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{body: "%PDF-1.4 resume"}
	client := &Client{api: fake, logger: zap.NewNop()}

	data, err := client.GetObject(context.Background(), "resumes", "2024/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 resume", string(data))
	assert.Equal(t, "resumes", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "2024/cv.pdf", aws.ToString(fake.input.Key))
}

func TestGetObjectError(t *testing.T) {
	t.Parallel()

	client := &Client{api: &fakeS3{err: errors.New("NoSuchKey")}, logger: zap.NewNop()}

	_, err := client.GetObject(context.Background(), "resumes", "missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get object: NoSuchKey")
}

func TestNewRequiresKeyPair(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{AccessKey: "key"}, nil)
	assert.ErrorContains(t, err, "must be set together")
}

func TestNewWithEndpoint(t *testing.T) {
	t.Parallel()

	client, err := New(context.Background(), Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, client)
}
