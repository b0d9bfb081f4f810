package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"workflow-downloader/pkg/models"
)

const reservedFileChars = `/\:*?"<>|`

// SanitizePathComponent turns name into a single safe path component.
// Separators, reserved characters and control characters become '_' and
// trailing dots and spaces are dropped. Names that end up empty (including
// "." and "..") are rejected.
func SanitizePathComponent(name string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(reservedFileChars, r) {
			return '_'
		}
		return r
	}, name)
	cleaned = strings.TrimRight(cleaned, ". ")
	if cleaned == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return cleaned, nil
}

// WorkflowFileName returns the file name a workflow is saved under.
func WorkflowFileName(displayName string) (string, error) {
	base, err := SanitizePathComponent(displayName)
	if err != nil {
		return "", fmt.Errorf("workflow display name: %w", err)
	}
	return base + ".json", nil
}

// OutputDirectory returns outputRoot/<name>/v<version> for ref.
func OutputDirectory(outputRoot string, ref models.ControllerRef) (string, error) {
	name, err := SanitizePathComponent(ref.Name)
	if err != nil {
		return "", fmt.Errorf("controller name: %w", err)
	}
	return filepath.Join(outputRoot, name, "v"+strconv.Itoa(ref.Version)), nil
}
