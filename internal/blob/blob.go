// Package blob provides the opaque document store behind uploaded financial
// statements. The engine never inspects file contents; objects are keyed by
// "<month>/<timestamp>-<filename>".
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"huishoudboekje/internal/core"
)

// MaxObjectSize is the largest accepted object, 50 MiB.
const MaxObjectSize = 50 << 20

var (
	ErrTooLarge        = errors.New("object exceeds maximum size")
	ErrUnsupportedMIME = errors.New("unsupported mime type")
)

// allowedMIMETypes is the store's acceptance policy: PDF, common office and
// spreadsheet formats, CSV and raster images.
var allowedMIMETypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.oasis.opendocument.text":                           {},
	"application/vnd.oasis.opendocument.spreadsheet":                    {},
	"text/csv":   {},
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// AllowedMIME reports whether the store accepts objects of the given type.
func AllowedMIME(mimeType string) bool {
	_, ok := allowedMIMETypes[mimeType]
	return ok
}

// Key builds the canonical object key for a statement uploaded at unixSec.
func Key(m core.MonthKey, unixSec int64, filename string) string {
	return fmt.Sprintf("%s/%d-%s", m.String(), unixSec, filename)
}

// Store is the object store port.
type Store interface {
	// Put writes the object. It fails with ErrTooLarge or
	// ErrUnsupportedMIME when the object violates the store policy.
	Put(ctx context.Context, key, mimeType string, size int64, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
