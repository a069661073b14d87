package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	fail    error
	calls   int
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
		f.types = map[string]string{}
	}
	key := aws.ToString(in.Key)
	f.objects[key] = string(body)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func upload(owner, name, contentType, body string) Upload {
	return Upload{
		OwnerID: owner, Filename: name, ContentType: contentType,
		Size: int64(len(body)), Body: strings.NewReader(body),
	}
}

func TestUpload(t *testing.T) {
	store := &fakeS3{}
	svc := newMediaService(store, "love-bucket", "https://cdn.example.com/")

	result, err := svc.Upload(context.Background(), upload("c1", "Photo.JPG", "image/jpeg", "jpegbytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.PublicID, "c1/"))
	assert.True(t, strings.HasSuffix(result.PublicID, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+result.PublicID, result.URL)
	assert.Equal(t, "jpegbytes", store.objects[result.PublicID])
	assert.Equal(t, "image/jpeg", store.types[result.PublicID])
}

func TestUpload_Rejects(t *testing.T) {
	store := &fakeS3{}
	svc := newMediaService(store, "love-bucket", "https://cdn.example.com")
	ctx := context.Background()

	_, err := svc.Upload(ctx, upload("c1", "notes.pdf", "application/pdf", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	big := upload("c1", "huge.png", "image/png", "x")
	big.Size = MaxUploadSize + 1
	_, err = svc.Upload(ctx, big)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Equal(t, 0, store.calls)
}

func TestUpload_BreakerOpensAfterFailures(t *testing.T) {
	store := &fakeS3{fail: errors.New("s3 down")}
	svc := newMediaService(store, "love-bucket", "https://cdn.example.com")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Upload(ctx, upload("u1", "a.m4a", "audio/mp4", "x"))
		assert.ErrorIs(t, err, ErrMediaUnavailable)
	}
	assert.Equal(t, 5, store.calls)

	// Open: the upstream is not called any more.
	_, err := svc.Upload(ctx, upload("u1", "a.m4a", "audio/mp4", "x"))
	assert.ErrorIs(t, err, ErrMediaUnavailable)
	assert.Equal(t, 5, store.calls)
	assert.Equal(t, KindUpstream, KindOf(err), "media outages are not database outages")
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("u1", "voice note.WAV")
	assert.True(t, strings.HasPrefix(key, "u1/"))
	assert.True(t, strings.HasSuffix(key, ".wav"))

	assert.False(t, strings.Contains(ObjectKey("u1", "noext"), "."))
}
