// Package blob abstracts the object store that holds uploaded documents
// and their normalized text forms.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a key has no object behind it.
var ErrNotFound = errors.New("blob: object not found")

// Object is a stored payload with its declared content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Store reads and writes objects by key. Keys never carry a leading slash.
type Store interface {
	Put(ctx context.Context, key string, obj Object) error
	Get(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
	// Bucket returns the bucket name objects live in, used to build locators.
	Bucket() string
}

// NormalizeKey strips leading slashes and rejects empty or traversal keys.
func NormalizeKey(key string) (string, error) {
	k := strings.TrimLeft(strings.TrimSpace(key), "/")
	if k == "" {
		return "", fmt.Errorf("blob: empty object key")
	}
	for _, part := range strings.Split(k, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("blob: invalid object key %q", key)
		}
	}
	return k, nil
}
