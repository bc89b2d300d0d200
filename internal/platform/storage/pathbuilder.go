package storage

import (
	"fmt"
	"strings"
)

// ImagePurpose captures high-level intent for storage layout decisions.
type ImagePurpose string

const (
	PurposeBouquet     ImagePurpose = "bouquet"
	PurposePlaceholder ImagePurpose = "placeholder"
)

// BuildImagePath composes the object key for a generated bouquet image.
func BuildImagePath(purpose ImagePurpose, bouquetID, fileName string) (string, error) {
	id, err := validateSegment("bouquetID", bouquetID)
	if err != nil {
		return "", err
	}
	name, err := validateFileName(fileName)
	if err != nil {
		return "", err
	}
	switch purpose {
	case PurposeBouquet:
		return fmt.Sprintf("bouquets/%s/%s", id, name), nil
	case PurposePlaceholder:
		return fmt.Sprintf("bouquets/placeholder/%s/%s", id, name), nil
	default:
		return "", fmt.Errorf("storage: unsupported image purpose %q", purpose)
	}
}

// PublicURL returns the canonical public object URL for a bucket entry.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

func validateSegment(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("storage: %s is required", name)
	}
	if strings.ContainsAny(value, "/\\") {
		return "", fmt.Errorf("storage: %s contains invalid path characters", name)
	}
	if strings.Contains(value, "..") {
		return "", fmt.Errorf("storage: %s contains invalid traversal sequence", name)
	}
	return value, nil
}

func validateFileName(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("storage: fileName is required")
	}
	if strings.ContainsAny(value, "/\\") {
		return "", fmt.Errorf("storage: fileName contains invalid path characters")
	}
	if strings.Contains(value, "..") {
		return "", fmt.Errorf("storage: fileName contains invalid traversal sequence")
	}
	return value, nil
}
