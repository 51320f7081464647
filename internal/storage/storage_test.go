package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStorage(Config{Type: "local", BasePath: dir, BaseURL: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	require.NoError(t, st.Save(ctx, "resume-1.pdf", bytes.NewReader(pdf), "application/pdf"))

	ok, err := st.Exists(ctx, "resume-1.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/uploads/resume-1.pdf", st.URL("resume-1.pdf"))

	obj, err := st.Open(ctx, "resume-1.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, obj.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, pdf, body)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, int64(len(pdf)), obj.Size)

	require.NoError(t, st.Delete(ctx, "resume-1.pdf"))
	require.NoError(t, st.Delete(ctx, "resume-1.pdf"))

	_, err = st.Open(ctx, "resume-1.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStorage(Config{BasePath: filepath.Join(dir, "uploads")})
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, st.Save(ctx, "../escape.txt", bytes.NewReader([]byte("x")), "text/plain"))
	_, err = st.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := st.Exists(ctx, "nested/file.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanKey(t *testing.T) {
	for _, good := range []string{"image-1.jpg", "resume-2.pdf"} {
		key, err := CleanKey(good)
		assert.NoError(t, err)
		assert.Equal(t, good, key)
	}
	for _, bad := range []string{"", ".", "..", "a/b.jpg", `a\b.jpg`, "/abs.jpg"} {
		_, err := CleanKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewStorage_RemoteConfigs(t *testing.T) {
	_, err := NewStorage(Config{Type: "s3"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewStorage(Config{Type: "cloudflare_r2", Bucket: "b"})
	assert.ErrorContains(t, err, "endpoint is required")

	st, err := NewStorage(Config{
		Type: "cloudflare_r2", Bucket: "candidates", BaseURL: "/uploads",
		Endpoint: "https://account.r2.cloudflarestorage.com", AccessKey: "k", SecretKey: "s",
		PublicRead: true,
	})
	require.NoError(t, err)
	r2 := st.(*S3Storage)
	assert.False(t, r2.publicRead)
	assert.Equal(t, "/uploads/image-1.jpg", r2.URL("image-1.jpg"))

	_, err = NewStorage(Config{Type: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage type")
}

func TestIsS3NotFound(t *testing.T) {
	assert.True(t, isS3NotFound(awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)))
	assert.True(t, isS3NotFound(awserr.New("NotFound", "missing", nil)))
	assert.False(t, isS3NotFound(awserr.New("AccessDenied", "nope", nil)))
	assert.False(t, isS3NotFound(errors.New("plain")))
}
