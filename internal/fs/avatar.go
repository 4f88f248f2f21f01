package fs

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fleet-go/internal/fleet"
)

// ReadAvatar reads the image at rawPath and returns it as a data URL, the form
// in which driver avatars are stored. Files larger than maxSize are refused.
func ReadAvatar(m fleet.FilesystemManager, rawPath string, maxSize int64) (string, error) {
	path, err := m.Resolve(rawPath)
	if err != nil {
		return "", err
	}
	if path.IsDir() {
		return "", fmt.Errorf("avatar must be a file: %s", path.String())
	}
	if size := path.Info().Size(); maxSize > 0 && size > maxSize {
		return "", fmt.Errorf("avatar is %d bytes, limit is %d: %s", size, maxSize, path.String())
	}

	f, err := m.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening avatar: %w", err)
	}
	defer f.Close()

	// Read one byte past the limit in case the file grew since it was resolved.
	r := io.Reader(f)
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading avatar: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", fmt.Errorf("avatar exceeds %d bytes: %s", maxSize, path.String())
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("avatar is not an image (%s): %s", mime, path.String())
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
