package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"lms/config"

	"github.com/google/uuid"
)

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9.]+`)

// SanitizeFilename strips everything except letters, digits and dots
func SanitizeFilename(name string) string {
	return filenameSanitizer.ReplaceAllString(name, "")
}

// SaveUploadedFile stores an uploaded file under destDir with a unique,
// sanitized name and returns the stored path.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Timestamp plus a short uuid keeps concurrent uploads from colliding
	base := SanitizeFilename(file.Filename)
	newFilename := time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8] + "-" + base
	filePath := filepath.Join(destDir, newFilename)

	// Create destination file
	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// Copy the file content
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return newFilename, nil
}

// GetFileURL returns the public URL for a stored file
func GetFileURL(fileName string) string {
	if fileName == "" {
		return ""
	}
	return config.AppConfig.BaseURL + "/uploads/" + fileName
}
