// Package imageload turns image files on disk into data URIs.
package imageload

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultMIME = "image/png"

var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// MIMEType maps the extension of path to an image MIME type. Unknown or
// missing extensions map to image/png.
func MIMEType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if mime, ok := mimeByExt[ext]; ok {
		return mime
	}
	return defaultMIME
}

// ReadImageBase64 reads the whole file at path and returns it as
// data:<mime>;base64,<payload>.
func ReadImageBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return DataURI(MIMEType(path), data), nil
}

// DataURI encodes data with standard padded base64.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
