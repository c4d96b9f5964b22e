// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
)

// Media service errors.
var (
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrNotAnImage   = errors.New("only image files are allowed")
)

// UploadURLPrefix is the public path the uploads directory is served under.
const UploadURLPrefix = "/uploads/"

// MediaService stores and deletes cover images.
type MediaService struct {
	processor *imaging.Processor
	maxSize   int64
}

// NewMediaService creates a media service writing into uploadDir.
func NewMediaService(uploadDir string) *MediaService {
	return &MediaService{
		processor: imaging.NewProcessor(uploadDir, model.CoverImage),
		maxSize:   model.MaxUploadSize,
	}
}

// Upload reads an image from r, normalizes it and stores it under a
// generated name of the form img-<uuid>.<ext>.
func (s *MediaService) Upload(r io.Reader) (*model.UploadedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	result, err := s.processor.Process(data)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		return nil, ErrNotAnImage
	}
	if err != nil {
		return nil, fmt.Errorf("processing image: %w", err)
	}

	filename := "img-" + uuid.New().String() + result.Ext()
	if _, err := s.processor.Save(filename, result.Data); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	slog.Info("image uploaded",
		"filename", filename,
		"width", result.Width,
		"height", result.Height,
		"size", len(result.Data),
	)

	return &model.UploadedImage{
		Filename: filename,
		URL:      UploadURLPrefix + filename,
		MimeType: result.MimeType,
		Width:    result.Width,
		Height:   result.Height,
		Size:     int64(len(result.Data)),
	}, nil
}

// Delete removes an uploaded image. It returns imaging.ErrImageNotFound for
// missing files and util.ErrInvalidFilename for names that are not a plain
// file name.
func (s *MediaService) Delete(filename string) error {
	if err := s.processor.Remove(filename); err != nil {
		return err
	}
	slog.Info("image deleted", "filename", filename)
	return nil
}
