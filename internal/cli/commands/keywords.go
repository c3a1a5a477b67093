package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"DocShelf/internal/cli/model"
	"DocShelf/internal/config"
)

type keywordRequest struct {
	Name string `json:"name"`
}

type keywordsCmd struct{}

func (keywordsCmd) Name() string        { return "keywords" }
func (keywordsCmd) Description() string { return "List keywords with file counts" }
func (keywordsCmd) Usage() string       { return "keywords" }

func (keywordsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var list []model.Keyword
	if err := newSession(cfg).call(ctx, http.MethodGet, "/api/keywords", nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No keywords")
		return nil
	}
	for _, k := range list {
		fmt.Fprintf(Out, "- %s  %s  files=%d\n", k.ID, k.Name, k.FileCount)
	}
	return nil
}

type keywordAddCmd struct{}

func (keywordAddCmd) Name() string        { return "keyword-add" }
func (keywordAddCmd) Description() string { return "Create a keyword (admin)" }
func (keywordAddCmd) Usage() string       { return "keyword-add <name>" }

func (keywordAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	var k model.Keyword
	if err := newSession(cfg).call(ctx, http.MethodPost, "/api/keywords", keywordRequest{Name: args[0]}, &k); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created keyword %s  %s\n", k.ID, k.Name)
	return nil
}

type keywordMvCmd struct{}

func (keywordMvCmd) Name() string        { return "keyword-mv" }
func (keywordMvCmd) Description() string { return "Rename a keyword (admin)" }
func (keywordMvCmd) Usage() string       { return "keyword-mv <id> <newName>" }

func (keywordMvCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	var k model.Keyword
	if err := newSession(cfg).call(ctx, http.MethodPut, "/api/keywords/"+url.PathEscape(args[0]), keywordRequest{Name: args[1]}, &k); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Renamed keyword %s  %s\n", k.ID, k.Name)
	return nil
}

type keywordRmCmd struct{}

func (keywordRmCmd) Name() string        { return "keyword-rm" }
func (keywordRmCmd) Description() string { return "Delete a keyword and detach it from files (admin)" }
func (keywordRmCmd) Usage() string       { return "keyword-rm <id>" }

func (keywordRmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newSession(cfg).call(ctx, http.MethodDelete, "/api/keywords/"+url.PathEscape(args[0]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Keyword deleted")
	return nil
}

func init() {
	RegisterCmd(SectionKeywords, keywordsCmd{})
	RegisterCmd(SectionKeywords, keywordAddCmd{})
	RegisterCmd(SectionKeywords, keywordMvCmd{})
	RegisterCmd(SectionKeywords, keywordRmCmd{})
}
