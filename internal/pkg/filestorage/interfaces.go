package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for stored-byte operations.
// Files are addressed by the stored name returned from SaveFile, never by the
// client-supplied filename.
type FileStorage interface {
	// SaveFile persists an uploaded file and returns the name it was stored under
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a stored file. Deleting a missing file is not an error.
	DeleteFile(storedName string) error

	// GetFullPath returns the full filesystem path for a stored name,
	// or an empty string if the name does not resolve to a stored file
	GetFullPath(storedName string) string
}
