package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"DocShelf/internal/cli/api"
	"DocShelf/internal/config"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role string `json:"role"`
}

// startSession выполняет вход и сохраняет cookie сессии локально.
func startSession(ctx context.Context, cfg *config.Config, path string, payload any) error {
	s := newSession(cfg)
	resp, body, err := api.PostJSON(ctx, s.base+path, payload, "")
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("invalid email or password")
	}
	var lr loginResponse
	if err := decodeResponse(resp, body, &lr); err != nil {
		return err
	}
	if err := api.PersistAuthFromResponse(resp, s.store); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	fmt.Fprintf(Out, "Logged in as %s\n", lr.Role)
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login as administrator and store auth cookie" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return startSession(ctx, cfg, "/api/auth/admin", LoginRequest{Email: args[0], Password: args[1]})
}

type guestCmd struct{}

func (guestCmd) Name() string        { return "guest" }
func (guestCmd) Description() string { return "Open a read/upload session without credentials" }
func (guestCmd) Usage() string       { return "guest" }

func (guestCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return startSession(ctx, cfg, "/api/auth/user", struct{}{})
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "End the session and forget the stored cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s := newSession(cfg)
	// локальный токен удаляем даже если сервер недоступен
	callErr := s.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err := s.store.Clear(); err != nil {
		return err
	}
	if callErr != nil {
		return callErr
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() {
	RegisterCmd(SectionSession, loginCmd{})
	RegisterCmd(SectionSession, guestCmd{})
	RegisterCmd(SectionSession, logoutCmd{})
}
