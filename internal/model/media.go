// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// MaxUploadSize is the largest accepted image upload.
const MaxUploadSize = 50 * 1024 * 1024 // 50MB

// ImageVariantConfig defines how an uploaded image is normalized before storage.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
}

// CoverImage bounds stored cover images; larger uploads are scaled down to fit.
var CoverImage = ImageVariantConfig{Width: 1920, Height: 1080, Quality: 90}

// UploadedImage describes a stored image.
type UploadedImage struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
}

// IsSupportedImageType reports whether mimeType can be uploaded.
func IsSupportedImageType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}
