package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"DocShelf/internal/cli/repo"
)

// CookieName: cookie сессии, которую выставляет сервер.
const CookieName = "auth_token"

// Error: ответ сервера с кодом вне 2xx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return fmt.Sprintf("server status %d: %s", e.Status, e.Message)
}

// StatusOf возвращает HTTP-код из *Error или 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// ErrorFromBody строит *Error, вынимая сообщение из {"error": "..."} если оно есть.
func ErrorFromBody(status int, body []byte) error {
	var m struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &m) == nil && m.Error != "" {
		msg = m.Error
	}
	return &Error{Status: status, Message: msg}
}

func do(req *http.Request, token string) (*http.Response, []byte, error) {
	if token != "" {
		req.Header.Set("Cookie", CookieName+"="+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read body: %w", err)
	}
	return resp, body, nil
}

// DoJSON отправляет запрос с JSON-телом (payload == nil: без тела).
// Если token непустой, он передаётся как auth cookie.
func DoJSON(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return do(req, token)
}

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as auth cookie.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return DoJSON(ctx, http.MethodPost, url, payload, token)
}

// FilePart: один файл multipart-загрузки.
type FilePart struct {
	Name string
	Data []byte
}

// PostMultipart отправляет файлы полем "files" и дополнительные текстовые поля.
func PostMultipart(ctx context.Context, url string, files []FilePart, fields map[string]string, token string) (*http.Response, []byte, error) {
	if len(files) == 0 {
		return nil, nil, errors.New("no files to upload")
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, nil, err
		}
		if _, err := fw.Write(f.Data); err != nil {
			return nil, nil, err
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(req, token)
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет его в store.
func PersistAuthFromResponse(resp *http.Response, store repo.TokenStore) error {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName && c.Value != "" {
			return store.Save(c.Value)
		}
	}
	return fmt.Errorf("no auth cookie in response")
}
