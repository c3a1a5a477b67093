package commands

import (
	"context"
	"fmt"
	"net/http"

	"DocShelf/internal/cli/model"
	"DocShelf/internal/config"
)

type statsCmd struct{}

func (statsCmd) Name() string        { return "stats" }
func (statsCmd) Description() string { return "Show dashboard statistics (admin)" }
func (statsCmd) Usage() string       { return "stats" }

func (statsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var st model.Stats
	if err := newSession(cfg).call(ctx, http.MethodGet, "/api/dashboard/stats", nil, &st); err != nil {
		return err
	}
	fmt.Fprintf(Out, "files:              %d\n", st.TotalFiles)
	fmt.Fprintf(Out, "folders:            %d\n", st.TotalFolders)
	fmt.Fprintf(Out, "keywords:           %d\n", st.TotalKeywords)
	fmt.Fprintf(Out, "recent (7 days):    %d\n", st.RecentFiles)
	fmt.Fprintf(Out, "without keywords:   %d\n", st.FilesWithoutKeywords)
	fmt.Fprintf(Out, "unused keywords:    %d\n", st.UnusedKeywords)
	fmt.Fprintf(Out, "empty folders:      %d\n", st.EmptyFolders)
	if len(st.TopKeywords) > 0 {
		fmt.Fprintln(Out, "top keywords:")
		for _, k := range st.TopKeywords {
			fmt.Fprintf(Out, "  %s  %d\n", k.Name, k.FileCount)
		}
	}
	return nil
}

func init() { RegisterCmd(SectionAdmin, statsCmd{}) }
