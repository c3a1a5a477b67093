package handlers

import (
	"net/http"

	"DocShelf/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type KeywordHandler struct {
	KeywordService *service.KeywordService
	Logger         *zap.SugaredLogger
}

func NewKeywordHandler(keywordService *service.KeywordService, logger *zap.SugaredLogger) *KeywordHandler {
	return &KeywordHandler{KeywordService: keywordService, Logger: logger}
}

type keywordRequest struct {
	Name string `json:"name"`
}

func (h *KeywordHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.KeywordService.List(r.Context())
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *KeywordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	k, err := h.KeywordService.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, k)
}

func (h *KeywordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	k, err := h.KeywordService.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (h *KeywordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.KeywordService.Delete(r.Context(), id); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("keyword deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
