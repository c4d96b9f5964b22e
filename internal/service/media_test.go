// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/util"
)

var generatedName = regexp.MustCompile(`^img-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.png$`)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMediaService_UploadAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := NewMediaService(dir)

	img, err := svc.Upload(bytes.NewReader(testPNG(t, 32, 16)))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}

	if !generatedName.MatchString(img.Filename) {
		t.Errorf("Filename = %q, want img-<uuid>.png", img.Filename)
	}
	if img.URL != "/uploads/"+img.Filename {
		t.Errorf("URL = %q", img.URL)
	}
	if img.Width != 32 || img.Height != 16 || img.MimeType != model.MimeTypePNG {
		t.Errorf("unexpected metadata %+v", img)
	}
	if _, err := os.Stat(filepath.Join(dir, img.Filename)); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	if err := svc.Delete(img.Filename); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := svc.Delete(img.Filename); !errors.Is(err, imaging.ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
}

func TestMediaService_UploadRejectsNonImage(t *testing.T) {
	svc := NewMediaService(t.TempDir())

	if _, err := svc.Upload(strings.NewReader("#!/bin/sh\necho hi\n")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}

func TestMediaService_UploadTooLarge(t *testing.T) {
	svc := NewMediaService(t.TempDir())
	svc.maxSize = 16

	if _, err := svc.Upload(bytes.NewReader(testPNG(t, 64, 64))); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestMediaService_DeleteTraversal(t *testing.T) {
	svc := NewMediaService(t.TempDir())

	if err := svc.Delete("../../etc/passwd"); !errors.Is(err, util.ErrInvalidFilename) {
		t.Errorf("expected ErrInvalidFilename, got %v", err)
	}
}
