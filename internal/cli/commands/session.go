package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"

	"DocShelf/internal/cli/api"
	"DocShelf/internal/cli/repo"
	fsrepo "DocShelf/internal/cli/repo/fs"
	"DocShelf/internal/config"
)

// newTokenStore выбирает хранилище токена по конфигу. Тесты могут его подменить.
var newTokenStore = func(cfg *config.Config) repo.TokenStore {
	return fsrepo.AuthFSStore{Path: cfg.TokenFile}
}

// session: обращения к серверу от имени сохранённой сессии.
type session struct {
	base  string
	store repo.TokenStore
	token string
}

func newSession(cfg *config.Config) *session {
	st := newTokenStore(cfg)
	// без токена запросы уходят анонимно, сервер ответит 401
	tok, _ := st.Load()
	return &session{base: strings.TrimRight(cfg.ServerURL, "/"), store: st, token: tok}
}

// call выполняет JSON-запрос и декодирует успешный ответ в out (если out != nil).
func (s *session) call(ctx context.Context, method, path string, payload, out any) error {
	resp, body, err := api.DoJSON(ctx, method, s.base+path, payload, s.token)
	if err != nil {
		return err
	}
	return decodeResponse(resp, body, out)
}

func (s *session) upload(ctx context.Context, files []api.FilePart, fields map[string]string, out any) error {
	resp, body, err := api.PostMultipart(ctx, s.base+"/api/files", files, fields, s.token)
	if err != nil {
		return err
	}
	return decodeResponse(resp, body, out)
}

func decodeResponse(resp *http.Response, body []byte, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := api.ErrorFromBody(resp.StatusCode, body)
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w (run 'login' or 'guest' first)", err)
		}
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// newFlagSet создаёт набор флагов подкоманды. Ошибки разбора превращаются в ErrUsage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// isSet сообщает, был ли флаг явно задан в командной строке.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// splitIDs разбирает список id через запятую.
func splitIDs(s string) []string {
	res := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
