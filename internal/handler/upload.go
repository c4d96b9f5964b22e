// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/util"
)

// multipartOverhead allows for form boundaries and headers on top of the file.
const multipartOverhead = 1 << 20

// UploadHandler handles cover image uploads.
type UploadHandler struct {
	media *service.MediaService
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(media *service.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

type uploadResponse struct {
	Success  int    `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type uploadErrorResponse struct {
	Success int    `json:"success"`
	Error   string `json:"error"`
}

// Upload handles POST /api/upload with the file in the "image" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxUploadSize+multipartOverhead)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, r, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.writeError(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	img, err := h.media.Upload(file)
	switch {
	case errors.Is(err, service.ErrNotAnImage):
		h.writeError(w, r, http.StatusBadRequest, "Only image files are allowed!")
		return
	case errors.Is(err, service.ErrFileTooLarge):
		h.writeError(w, r, http.StatusRequestEntityTooLarge, "File too large")
		return
	case err != nil:
		slog.Error("upload failed", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, r, http.StatusOK, uploadResponse{
		Success:  1,
		URL:      img.URL,
		Filename: img.Filename,
	})
}

// Delete handles DELETE /api/upload/{filename}.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.media.Delete(chi.URLParam(r, "filename"))
	switch {
	case errors.Is(err, util.ErrInvalidFilename):
		writeJSONError(w, r, http.StatusBadRequest, "Invalid filename")
		return
	case errors.Is(err, imaging.ErrImageNotFound):
		writeJSONError(w, r, http.StatusNotFound, "Image not found")
		return
	case err != nil:
		slog.Error("delete failed", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Delete failed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Image deleted",
	})
}

func (h *UploadHandler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, uploadErrorResponse{Success: 0, Error: message})
}
