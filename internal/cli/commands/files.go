package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"DocShelf/internal/cli/api"
	"DocShelf/internal/cli/model"
	"DocShelf/internal/config"
)

const dateLayout = "2006-01-02"

func fileLine(f model.File) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", f.ID, f.Name)
	if f.Folder != nil {
		fmt.Fprintf(&b, "  folder=%s", f.Folder.Name)
	}
	if f.DateTexte != nil {
		fmt.Fprintf(&b, "  date=%s", f.DateTexte.Format(dateLayout))
	}
	if len(f.Keywords) > 0 {
		names := make([]string, 0, len(f.Keywords))
		for _, k := range f.Keywords {
			names = append(names, k.Name)
		}
		fmt.Fprintf(&b, "  keywords=%s", strings.Join(names, ","))
	}
	return b.String()
}

type filesCmd struct{}

func (filesCmd) Name() string        { return "files" }
func (filesCmd) Description() string { return "Search files by name, keywords, folder subtree and date" }
func (filesCmd) Usage() string {
	return "files [-q text] [-k id,id] [-mode AND|OR] [-folder id] [-from date] [-to date] [-sort field] [-order asc|desc]"
}

func (filesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("files")
	text := fs.String("q", "", "substring of the file name")
	keywords := fs.String("k", "", "keyword ids, comma separated")
	mode := fs.String("mode", "", "keyword match mode: AND or OR")
	folder := fs.String("folder", "", "folder id, includes subfolders")
	from := fs.String("from", "", "document date from, YYYY-MM-DD")
	to := fs.String("to", "", "document date to (inclusive), YYYY-MM-DD")
	sortBy := fs.String("sort", "", "name, dateTexte or createdAt")
	order := fs.String("order", "", "asc or desc")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	q := url.Values{}
	for k, v := range map[string]string{
		"search":    *text,
		"keywords":  strings.Join(splitIDs(*keywords), ","),
		"mode":      *mode,
		"folderId":  *folder,
		"dateFrom":  *from,
		"dateTo":    *to,
		"sortBy":    *sortBy,
		"sortOrder": *order,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var list []model.File
	if err := newSession(cfg).call(ctx, http.MethodGet, "/api/files?"+q.Encode(), nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No files")
		return nil
	}
	for _, f := range list {
		fmt.Fprintf(Out, "- %s\n", fileLine(f))
	}
	fmt.Fprintf(Out, "Total: %d\n", len(list))
	return nil
}

type uploadCmd struct{}

func (uploadCmd) Name() string        { return "upload" }
func (uploadCmd) Description() string { return "Upload files with shared metadata" }
func (uploadCmd) Usage() string {
	return "upload [-folder id] [-k id,id] [-date YYYY-MM-DD] [-comment text] [-as name] <path>..."
}

func (uploadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("upload")
	folder := fs.String("folder", "", "target folder id")
	keywords := fs.String("k", "", "keyword ids, comma separated")
	date := fs.String("date", "", "document date, YYYY-MM-DD")
	comment := fs.String("comment", "", "comment for every uploaded file")
	as := fs.String("as", "", "catalog name (single file only)")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 || (*as != "" && fs.NArg() != 1) {
		return ErrUsage
	}

	parts := make([]api.FilePart, 0, fs.NArg())
	for _, p := range fs.Args() {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		parts = append(parts, api.FilePart{Name: filepath.Base(p), Data: data})
	}

	fields := map[string]string{}
	if *folder != "" {
		fields["folderId"] = *folder
	}
	if ids := splitIDs(*keywords); len(ids) > 0 {
		b, _ := json.Marshal(ids)
		fields["keywordIds"] = string(b)
	}
	if *date != "" {
		fields["dateTexte"] = *date
	}
	if *comment != "" {
		fields["commentaire"] = *comment
	}
	if *as != "" {
		b, _ := json.Marshal(map[string]string{"0": *as})
		fields["customNames"] = string(b)
	}

	var created []model.File
	if err := newSession(cfg).upload(ctx, parts, fields, &created); err != nil {
		return err
	}
	for _, f := range created {
		fmt.Fprintf(Out, "Uploaded %s\n", fileLine(f))
	}
	return nil
}

type fileUpdate struct {
	Name        string   `json:"name"`
	FolderID    *string  `json:"folderId"`
	KeywordIDs  []string `json:"keywordIds"`
	DateTexte   *string  `json:"dateTexte"`
	Commentaire *string  `json:"commentaire"`
}

type fileEditCmd struct{}

func (fileEditCmd) Name() string        { return "file-edit" }
func (fileEditCmd) Description() string { return "Change file metadata; unspecified fields keep their values" }
func (fileEditCmd) Usage() string {
	return "file-edit [-name n] [-folder id|-] [-k id,id] [-date YYYY-MM-DD|-] [-comment text] <id>"
}

func (fileEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("file-edit")
	name := fs.String("name", "", "new catalog name")
	folder := fs.String("folder", "", "folder id, '-' for top level")
	keywords := fs.String("k", "", "keyword ids, replaces the current set")
	date := fs.String("date", "", "document date, '-' clears it")
	comment := fs.String("comment", "", "comment, empty clears it")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	s := newSession(cfg)
	path := "/api/files/" + url.PathEscape(fs.Arg(0))

	// сервер перезаписывает все поля, поэтому начинаем с текущих значений
	var cur model.File
	if err := s.call(ctx, http.MethodGet, path, nil, &cur); err != nil {
		return err
	}
	upd := fileUpdate{
		Name:        cur.Name,
		FolderID:    cur.FolderID,
		KeywordIDs:  cur.KeywordIDs(),
		Commentaire: cur.Commentaire,
	}
	if cur.DateTexte != nil {
		d := cur.DateTexte.Format(dateLayout)
		upd.DateTexte = &d
	}
	if isSet(fs, "name") {
		upd.Name = *name
	}
	if isSet(fs, "folder") {
		upd.FolderID = nil
		if *folder != rootArg {
			upd.FolderID = folder
		}
	}
	if isSet(fs, "k") {
		upd.KeywordIDs = splitIDs(*keywords)
	}
	if isSet(fs, "date") {
		upd.DateTexte = nil
		if *date != rootArg {
			upd.DateTexte = date
		}
	}
	if isSet(fs, "comment") {
		upd.Commentaire = nil
		if *comment != "" {
			upd.Commentaire = comment
		}
	}

	var f model.File
	if err := s.call(ctx, http.MethodPut, path, upd, &f); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Updated %s\n", fileLine(f))
	return nil
}

type fileRmCmd struct{}

func (fileRmCmd) Name() string        { return "file-rm" }
func (fileRmCmd) Description() string { return "Delete a file and its stored content" }
func (fileRmCmd) Usage() string       { return "file-rm <id>" }

func (fileRmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newSession(cfg).call(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(args[0]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintln(Out, "File deleted")
	return nil
}

type downloadCmd struct{}

func (downloadCmd) Name() string        { return "download" }
func (downloadCmd) Description() string { return "Save file content by catalog name" }
func (downloadCmd) Usage() string       { return "download <name> [dest]" }

func (downloadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	dest := filepath.Base(args[0])
	if len(args) == 2 {
		dest = args[1]
	}
	s := newSession(cfg)
	resp, body, err := api.DoJSON(ctx, http.MethodGet, s.base+"/api/files/serve/"+url.PathEscape(args[0]), nil, s.token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return decodeResponse(resp, body, nil)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Saved %s (%d bytes)\n", dest, len(body))
	return nil
}

func init() {
	RegisterCmd(SectionFiles, filesCmd{})
	RegisterCmd(SectionFiles, uploadCmd{})
	RegisterCmd(SectionFiles, fileEditCmd{})
	RegisterCmd(SectionFiles, fileRmCmd{})
	RegisterCmd(SectionFiles, downloadCmd{})
}
