package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/bookhive/bookhive/pkg/reqid"
	"github.com/bookhive/bookhive/pkg/storage"
)

// ErrBadDataURI is returned when an upload payload is not a base64 data URI.
var ErrBadDataURI = errors.New("invalid data URI")

var extByMIME = map[string]string{
	"image/png":            "png",
	"image/jpeg":           "jpg",
	"image/webp":           "webp",
	"image/gif":            "gif",
	"application/pdf":      "pdf",
	"application/epub+zip": "epub",
}

// decodeDataURI splits "data:<mime>;base64,<payload>" into extension and
// raw bytes.
func decodeDataURI(s string) (ext string, data []byte, err error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, ErrBadDataURI
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	mime, enc, ok := strings.Cut(meta, ";")
	if !ok || enc != "base64" {
		return "", nil, ErrBadDataURI
	}

	ext, ok = extByMIME[mime]
	if !ok {
		// Fall back to the MIME subtype for anything we don't special-case.
		if _, sub, found := strings.Cut(mime, "/"); found && sub != "" {
			ext = sub
		} else {
			return "", nil, ErrBadDataURI
		}
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return ext, data, nil
}

// uploadDataURI stores the decoded payload under folder on the disk and
// returns its public URL. The stored path reuses the request-ID generator
// for a collision-free name.
func uploadDataURI(disk storage.Disk, folder, dataURI string) (string, error) {
	ext, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("%s/%s.%s", folder, reqid.New(), ext)
	if err := disk.Put(path, data); err != nil {
		return "", fmt.Errorf("upload: store %s: %w", path, err)
	}
	return disk.URL(path), nil
}
