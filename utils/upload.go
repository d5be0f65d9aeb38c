package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxDocumentSize caps uploaded documents at 5MB.
const MaxDocumentSize = 5 * 1024 * 1024

var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateDocument rejects uploads that are too large or of an unexpected
// type. Content validation beyond size and extension is out of scope.
func ValidateDocument(file *multipart.FileHeader) error {
	if file.Size > MaxDocumentSize {
		return fmt.Errorf("file exceeds the 5MB size limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExts[ext] {
		return fmt.Errorf("unsupported file type %q", ext)
	}
	return nil
}

// UploadDocument validates a multipart upload and stores it in the object
// store, returning the retrieval URL.
func UploadDocument(file *multipart.FileHeader, folder string, ownerID uint) (string, error) {
	if err := ValidateDocument(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := GenerateObjectKey(folder, ownerID, file.Filename)
	return UploadToCloudinary(src, key, folder)
}
