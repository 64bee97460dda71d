package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngPayload = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngPayload)
}

func TestDecodeDataURL(t *testing.T) {
	ext, contentType, data, err := DecodeDataURL(pngDataURL())
	require.NoError(t, err)
	assert.Equal(t, "png", ext)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, pngPayload, data)
}

func TestDecodeDataURL_Rejects(t *testing.T) {
	cases := map[string]string{
		"no header":    base64.StdEncoding.EncodeToString(pngPayload),
		"not base64":   "data:image/png;base64,%%%",
		"not an image": "data:text/plain;base64,aGk=",
		"bad ext":      "data:image/tiff;base64,aGk=",
		"empty":        "data:image/png;base64,",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := DecodeDataURL(input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(root, "/media/")
	ctx := context.Background()

	url, err := store.SaveBase64(ctx, "recipes", pngDataURL())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/recipes/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	path := filepath.Join(root, strings.TrimPrefix(url, "/media/"))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngPayload, got)

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// deleting twice or a foreign URL is a no-op
	assert.NoError(t, store.Delete(ctx, url))
	assert.NoError(t, store.Delete(ctx, "https://elsewhere.example/x.png"))
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestAwsS3_SaveAndDelete(t *testing.T) {
	api := &fakeS3{}
	store := &AwsS3{client: api, bucket: "foodgram", region: "eu-west-1"}
	ctx := context.Background()

	url, err := store.SaveBase64(ctx, "avatars", pngDataURL())
	require.NoError(t, err)
	require.Len(t, api.puts, 1)

	key := aws.ToString(api.puts[0].Key)
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.Equal(t, "image/png", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, "https://foodgram.s3.eu-west-1.amazonaws.com/"+key, url)

	require.NoError(t, store.Delete(ctx, url))
	assert.Equal(t, []string{key}, api.deletes)

	require.NoError(t, store.Delete(ctx, "/media/other.png"))
	assert.Len(t, api.deletes, 1)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
