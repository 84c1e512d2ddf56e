package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"care-recruitment-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Passport.pdf", "My_Passport"},
		{"../../etc/passwd.png", "passwd"},
		{"ñandú.jpg", "and"},
		{"😀.pdf", "file"},
		{"scan-2024_v2.JPEG", "scan-2024_v2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.SanitizeFilename(tt.in))
		})
	}
}

func TestObjectName(t *testing.T) {
	name := storage.ObjectName("passport", "My Passport.PDF")
	assert.True(t, strings.HasPrefix(name, "passport/"))
	assert.True(t, strings.HasSuffix(name, "_My_Passport.pdf"))
	assert.NotEqual(t, name, storage.ObjectName("passport", "My Passport.PDF"))
}

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "credentials/abc_license.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "credentials", "abc_license.pdf")), ref)

	data, err := os.ReadFile(filepath.FromSlash(ref))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestLocalStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "passport/abc_scan.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(filepath.FromSlash(ref))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Already gone is fine.
	assert.NoError(t, store.Delete(ctx, ref))

	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	assert.Error(t, store.Delete(ctx, filepath.ToSlash(outside)))
	assert.Error(t, store.Delete(ctx, filepath.ToSlash(dir)))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestS3Store_DeleteRejectsForeignReference(t *testing.T) {
	var store storage.S3Store
	assert.Error(t, store.Delete(context.Background(), "uploads/passport/abc.pdf"))
}

func TestS3Config_Endpoint(t *testing.T) {
	assert.Empty(t, storage.S3Config{Provider: storage.S3ProviderAWS, Region: "us-east-1"}.Endpoint())
	assert.Equal(t, "s3.eu-west-1.wasabisys.com", storage.S3Config{Provider: storage.S3ProviderWasabi, Region: "eu-west-1"}.Endpoint())
	assert.Equal(t, "custom.example.com", storage.S3Config{Provider: storage.S3ProviderWasabi, WasabiEndpoint: "custom.example.com"}.Endpoint())
	assert.Equal(t, "s3.ap-southeast-1.wasabisys.com", storage.S3Config{Provider: storage.S3ProviderWasabi, Region: "mars-1"}.Endpoint())
}
