package commands

import (
	"context"
	"fmt"
	"net/http"

	"DocShelf/internal/cli/api"
	"DocShelf/internal/config"
)

type statusResponse struct {
	Role string `json:"role"`
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the role of the current session" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s := newSession(cfg)
	var st statusResponse
	err := s.call(ctx, http.MethodGet, "/api/auth/status", nil, &st)
	if api.StatusOf(err) == http.StatusUnauthorized {
		fmt.Fprintln(Out, "Status: not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Status:", st.Role)
	return nil
}

func init() { RegisterCmd(SectionSession, statusCmd{}) }
