package handlers

import (
	"net/http"
	"strconv"

	"DocShelf/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FolderHandler: CRUD папок и навигация по дереву.
type FolderHandler struct {
	FolderService *service.FolderService
	Logger        *zap.SugaredLogger
}

func NewFolderHandler(folderService *service.FolderService, logger *zap.SugaredLogger) *FolderHandler {
	return &FolderHandler{FolderService: folderService, Logger: logger}
}

// List: ?parentId= отдаёт детей папки (без параметра верхний уровень);
// ?includeHierarchy=true: все папки сразу. Агрегаты считаются всегда,
// ?counts=false их отключает.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	withCounts := true
	if v := q.Get("counts"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid counts flag")
			return
		}
		withCounts = b
	}

	if all, _ := strconv.ParseBool(q.Get("includeHierarchy")); all {
		res, err := h.FolderService.ListAll(r.Context(), withCounts)
		if err != nil {
			writeError(w, h.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	res, err := h.FolderService.ListChildren(r.Context(), optional(q.Get("parentId")), withCounts)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.FolderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	f, err := h.FolderService.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("folder created", "id", f.ID, "name", f.Name)
	writeJSON(w, http.StatusCreated, f)
}

func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.FolderService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Path: «хлебные крошки» от корня до папки.
func (h *FolderHandler) Path(w http.ResponseWriter, r *http.Request) {
	p, err := h.FolderService.Path(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update переименовывает и/или переносит папку.
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.FolderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	f, err := h.FolderService.Rename(r.Context(), id, in)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("folder updated", "id", id, "name", f.Name)
	writeJSON(w, http.StatusOK, f)
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.FolderService.Delete(r.Context(), id); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("folder deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
