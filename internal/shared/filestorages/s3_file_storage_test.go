package filestorages

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]; ok {
		return &s3.HeadObjectOutput{}, nil
	}
	return nil, &types.NotFound{}
}

func TestS3Put_WritesUnderPrefix(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	storage, err := NewS3FileStorageWithClient(client, "metrics", "/archive/")
	require.NoError(t, err)

	result, err := storage.Put(context.Background(), "dead-letter/a.ndjson.gz", strings.NewReader("payload"), PutOptions{ContentType: "application/gzip"})
	require.NoError(t, err)
	assert.Equal(t, "archive/dead-letter/a.ndjson.gz", result.FileKey)
	assert.Equal(t, []byte("payload"), client.objects["metrics/archive/dead-letter/a.ndjson.gz"])
	assert.Equal(t, "application/gzip", client.types["metrics/archive/dead-letter/a.ndjson.gz"])
}

func TestS3Put_AllowOverwriteFalse_ObjectExists(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	storage, err := NewS3FileStorageWithClient(client, "metrics", "")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = storage.Put(ctx, "a.txt", strings.NewReader("one"), PutOptions{})
	require.NoError(t, err)

	_, err = storage.Put(ctx, "a.txt", strings.NewReader("two"), PutOptions{})
	assert.ErrorIs(t, err, ErrFileAlreadyExists)
	assert.Equal(t, []byte("one"), client.objects["metrics/a.txt"])

	_, err = storage.Put(ctx, "a.txt", strings.NewReader("three"), PutOptions{AllowOverwrite: true})
	require.NoError(t, err)
	assert.Equal(t, []byte("three"), client.objects["metrics/a.txt"])
}

func TestS3Put_PutObjectError(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	client.putErr = assert.AnError
	storage, err := NewS3FileStorageWithClient(client, "metrics", "")
	require.NoError(t, err)

	_, err = storage.Put(context.Background(), "a.txt", strings.NewReader("one"), PutOptions{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestS3Put_InvalidKey(t *testing.T) {
	t.Parallel()

	storage, err := NewS3FileStorageWithClient(newFakeS3(), "metrics", "")
	require.NoError(t, err)

	_, err = storage.Put(context.Background(), "../escape", strings.NewReader("x"), PutOptions{})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewS3FileStorage_EmptyBucket(t *testing.T) {
	t.Parallel()

	storage, err := NewS3FileStorageWithClient(newFakeS3(), " ", "")
	assert.Nil(t, storage)
	assert.ErrorIs(t, err, ErrInvalidBucket)
}
