// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFilename is returned for names that are empty, contain a
// directory component or would resolve outside the uploads directory.
var ErrInvalidFilename = errors.New("invalid filename")

// CleanUploadName validates a client-supplied upload name. Unlike
// filepath.Base it rejects names with separators instead of stripping them,
// so "../secret.jpg" never silently maps to "secret.jpg".
func CleanUploadName(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return name, nil
}

// ValidatePathWithinBase ensures that targetPath resolves inside basePath.
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}

	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// Trailing separator so /uploads-other does not match /uploads
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrInvalidFilename)
	}

	return nil
}

// UploadPath validates name and joins it onto dir.
func UploadPath(dir, name string) (string, error) {
	clean, err := CleanUploadName(name)
	if err != nil {
		return "", err
	}

	full := filepath.Join(dir, clean)
	if err := ValidatePathWithinBase(dir, full); err != nil {
		return "", err
	}
	return full, nil
}
