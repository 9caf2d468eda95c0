package storage

import (
	"errors"
	"io"
	"strings"
)

// BlobStore holds question media (images for click-zone questions, audio
// prompts). Keys are relative paths like "questions/<id>/figure.png".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}

var ErrBadKey = errors.New("storage: bad key")

// MediaKey builds the canonical key for a question attachment.
func MediaKey(questionID, filename string) string {
	return "questions/" + questionID + "/" + filename
}

// ValidKey rejects empty keys, absolute paths and parent traversal.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
