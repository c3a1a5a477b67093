package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"DocShelf/internal/apperr"
	"DocShelf/internal/config"
	"DocShelf/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory: сколько multipart-данных держать в памяти до сброса на диск.
const multipartMemory = 32 << 20

// FileHandler обслуживает каталог файлов (поиск, загрузка, правка, выдача).
type FileHandler struct {
	FileService *service.FileService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewFileHandler(fileService *service.FileService, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{FileService: fileService, Logger: logger, Config: cfg}
}

// Search: ?search=&keywords=a,b&mode=AND|OR&folderId=&dateFrom=&dateTo=&sortBy=&sortOrder=
func (h *FileHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDate("dateFrom", q.Get("dateFrom"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	to, err := parseDate("dateTo", q.Get("dateTo"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	res, err := h.FileService.Search(r.Context(), service.SearchQuery{
		Text:       q.Get("search"),
		KeywordIDs: splitList(q.Get("keywords")),
		Mode:       service.SearchMode(q.Get("mode")),
		FolderID:   optional(q.Get("folderId")),
		DateFrom:   from,
		DateTo:     to,
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	})
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Upload принимает multipart/form-data:
// files (несколько), keywordIds (JSON-массив), customNames (JSON-объект индекс -> имя),
// folderId, dateTexte, commentaire.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadRequestBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var keywordIDs []string
	if v := r.FormValue("keywordIds"); v != "" {
		if err := json.Unmarshal([]byte(v), &keywordIDs); err != nil {
			writeMessage(w, http.StatusBadRequest, "keywordIds must be a JSON array")
			return
		}
	}
	customNames := map[string]string{}
	if v := r.FormValue("customNames"); v != "" {
		if err := json.Unmarshal([]byte(v), &customNames); err != nil {
			writeMessage(w, http.StatusBadRequest, "customNames must be a JSON object")
			return
		}
	}
	date, err := parseDate("dateTexte", r.FormValue("dateTexte"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) > h.Config.MaxUploadFiles() {
		writeError(w, h.Logger, r, apperr.Validation("too many files: at most %d per upload", h.Config.MaxUploadFiles()))
		return
	}
	items := make([]service.UploadItem, 0, len(headers))
	for i, fh := range headers {
		if fh.Size > h.Config.MaxUploadBytes() {
			writeError(w, h.Logger, r, apperr.Validation("file %q exceeds %d MB", fh.Filename, h.Config.BlobMaxSizeMB))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(w, h.Logger, r, err)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, h.Logger, r, err)
			return
		}
		name := fh.Filename
		if custom := customNames[strconv.Itoa(i)]; custom != "" {
			name = custom
		}
		items = append(items, service.UploadItem{Name: name, Data: data})
	}

	res, err := h.FileService.Upload(r.Context(), service.UploadRequest{
		Files:       items,
		FolderID:    optional(r.FormValue("folderId")),
		KeywordIDs:  keywordIDs,
		DateTexte:   date,
		Commentaire: optional(r.FormValue("commentaire")),
	})
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.FileService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type fileUpdateRequest struct {
	Name        string   `json:"name"`
	FolderID    *string  `json:"folderId"`
	KeywordIDs  []string `json:"keywordIds"`
	DateTexte   *string  `json:"dateTexte"`
	Commentaire *string  `json:"commentaire"`
}

// Update перезаписывает метаданные; keywordIds заменяет набор меток целиком.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req fileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	var date string
	if req.DateTexte != nil {
		date = *req.DateTexte
	}
	dt, err := parseDate("dateTexte", date)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	f, err := h.FileService.Update(r.Context(), id, service.FileInput{
		Name:        req.Name,
		FolderID:    req.FolderID,
		KeywordIDs:  req.KeywordIDs,
		DateTexte:   dt,
		Commentaire: req.Commentaire,
	})
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("file updated", "id", id, "name", f.Name)
	writeJSON(w, http.StatusOK, f)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.FileService.Delete(r.Context(), id); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("file deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Serve отдаёт содержимое файла по его имени в каталоге.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	c, err := h.FileService.Open(r.Context(), name)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	w.Header().Set("Content-Type", c.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": c.File.Name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}
