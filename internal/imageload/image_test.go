package imageload

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMIMEType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"cat.jpg", "image/jpeg"},
		{"cat.JPG", "image/jpeg"},
		{"cat.jpeg", "image/jpeg"},
		{"/tmp/a.b/cat.Jpeg", "image/jpeg"},
		{"cat.png", "image/png"},
		{"cat.gif", "image/gif"},
		{"cat.webp", "image/webp"},
		{"cat.WEBP", "image/webp"},
		{"cat.bmp", "image/png"},
		{"cat", "image/png"},
		{"cat.", "image/png"},
		{"/tmp/dir.jpg/cat", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, MIMEType(tt.path))
		})
	}
}

var dataURIPattern = regexp.MustCompile(`^data:(image/[a-z]+);base64,([A-Za-z0-9+/=]*)$`)

func TestReadImageBase64_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff, 0xfe, 0x10}

	for _, name := range []string{"pet.png", "pet.JPG", "pet.gif", "pet", "pet.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, content, 0o644))

			uri, err := ReadImageBase64(path)
			require.NoError(t, err)

			m := dataURIPattern.FindStringSubmatch(uri)
			require.NotNil(t, m, "uri %q does not match", uri)
			require.Equal(t, MIMEType(name), m[1])

			decoded, err := base64.StdEncoding.DecodeString(m[2])
			require.NoError(t, err)
			require.Equal(t, content, decoded)
		})
	}
}

func TestReadImageBase64_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.webp")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	uri, err := ReadImageBase64(path)
	require.NoError(t, err)
	require.Equal(t, "data:image/webp;base64,", uri)
}

func TestReadImageBase64_MissingFile(t *testing.T) {
	_, err := ReadImageBase64(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))
	require.True(t, strings.Contains(err.Error(), "nope.png"))
}
