// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded cover images and manages them on disk.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/util"
)

// Errors returned by the processor.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageNotFound     = errors.New("image not found")
)

// Result is a processed image ready to be written.
type Result struct {
	Data     []byte
	Format   string
	Width    int
	Height   int
	MimeType string
}

// Ext returns the file extension matching the encoded format.
func (r *Result) Ext() string {
	switch r.Format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	uploadDir string
	variant   model.ImageVariantConfig
}

// NewProcessor creates a processor that writes into uploadDir and scales
// images down to fit variant.
func NewProcessor(uploadDir string, variant model.ImageVariantConfig) *Processor {
	return &Processor{
		uploadDir: uploadDir,
		variant:   variant,
	}
}

// Process validates and normalizes raw image bytes. EXIF orientation is
// applied and images larger than the configured bounds are scaled to fit.
// GIFs that need no change are kept byte-for-byte so animation survives.
func (p *Processor) Process(data []byte) (*Result, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	orientation := 1
	if format == "jpeg" {
		orientation = readExifOrientation(bytes.NewReader(data))
	}
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	needsResize := p.variant.Width > 0 && p.variant.Height > 0 &&
		(bounds.Dx() > p.variant.Width || bounds.Dy() > p.variant.Height)

	if format == "gif" && !needsResize {
		return &Result{
			Data:     data,
			Format:   format,
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			MimeType: model.MimeTypeGIF,
		}, nil
	}

	if needsResize {
		img = imaging.Fit(img, p.variant.Width, p.variant.Height, imaging.Lanczos)
	}

	// No pure Go WebP encoder; WebP input is stored as JPEG
	if format == "webp" {
		format = "jpeg"
	}

	encoded, err := encodeImage(img, format, p.variant.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	final := img.Bounds()
	return &Result{
		Data:     encoded,
		Format:   format,
		Width:    final.Dx(),
		Height:   final.Dy(),
		MimeType: formatToMimeType(format),
	}, nil
}

// Save writes data as filename inside the upload directory.
func (p *Processor) Save(filename string, data []byte) (string, error) {
	path, err := util.UploadPath(p.uploadDir, filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return path, nil
}

// Remove deletes filename from the upload directory.
func (p *Processor) Remove(filename string) error {
	path, err := util.UploadPath(p.uploadDir, filename)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("checking image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return ErrImageNotFound
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation undoes the camera rotation described by an EXIF
// orientation value (1-8).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
