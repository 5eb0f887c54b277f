package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
	"github.com/cliphunter/cliphunter/services/clip"
	"github.com/cliphunter/cliphunter/validation"
)

const maxBodySize = 1024 * 1024 // 1MB

type ClipHandler struct {
	service   clip.Service
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewClipHandler(service clip.Service, validator *validation.Validator, log *logrus.Logger) *ClipHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClipHandler{
		service:   service,
		validator: validator,
		logger:    log,
	}
}

// HandleInfo handles POST /api/info
func (h *ClipHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	const op = "ClipHandler.HandleInfo"

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxBodySize,
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.InfoRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.URL == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "URL is required"))
		return
	}

	info, err := h.service.Info(r.Context(), req.URL)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// HandleCreateClip handles POST /api/clip
func (h *ClipHandler) HandleCreateClip(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxBodySize,
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.ClipRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, err := h.service.CreateClip(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"short_code": resp.ShortCode,
		"embed_url":  resp.EmbedURL,
	}).Info("Clip created")

	respondJSON(w, http.StatusOK, resp)
}

// HandleGetClip handles GET /api/clip/{short_code}
func (h *ClipHandler) HandleGetClip(w http.ResponseWriter, r *http.Request) {
	const op = "ClipHandler.HandleGetClip"

	shortCode := r.PathValue("short_code")
	if shortCode == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "short code is required"))
		return
	}

	record, err := h.service.GetClip(r.Context(), shortCode)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// HandleCut handles POST /api/cut
func (h *ClipHandler) HandleCut(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxBodySize,
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.CutRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, err := h.service.Cut(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
