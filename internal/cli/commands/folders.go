package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"DocShelf/internal/cli/model"
	"DocShelf/internal/config"
)

// rootArg: явное указание верхнего уровня вместо id родителя.
const rootArg = "-"

func folderLine(f model.Folder) string {
	line := fmt.Sprintf("%s  %s", f.ID, f.Name)
	if f.Counts != nil {
		line += fmt.Sprintf("  files=%d folders=%d", f.Counts.Files, f.Counts.Folders)
	}
	return line
}

// printTree печатает папки с отступом по глубине, соседи по имени.
func printTree(list []model.Folder) {
	byParent := map[string][]model.Folder{}
	for _, f := range list {
		byParent[deref(f.ParentID)] = append(byParent[deref(f.ParentID)], f)
	}
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		kids := byParent[parent]
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
		for _, f := range kids {
			fmt.Fprintf(Out, "%s- %s\n", strings.Repeat("  ", depth), folderLine(f))
			walk(f.ID, depth+1)
		}
	}
	walk("", 0)
}

type foldersCmd struct{}

func (foldersCmd) Name() string        { return "folders" }
func (foldersCmd) Description() string { return "List subfolders (top level by default) or the whole tree" }
func (foldersCmd) Usage() string       { return "folders [-tree] [parentId]" }

func (foldersCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("folders")
	tree := fs.Bool("tree", false, "print the whole hierarchy")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 || (*tree && fs.NArg() > 0) {
		return ErrUsage
	}
	q := url.Values{}
	if *tree {
		q.Set("includeHierarchy", "true")
	} else if fs.NArg() == 1 {
		q.Set("parentId", fs.Arg(0))
	}
	var list []model.Folder
	if err := newSession(cfg).call(ctx, http.MethodGet, "/api/folders?"+q.Encode(), nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No folders")
		return nil
	}
	if *tree {
		printTree(list)
		return nil
	}
	for _, f := range list {
		fmt.Fprintf(Out, "- %s\n", folderLine(f))
	}
	return nil
}

type folderInput struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

type mkdirCmd struct{}

func (mkdirCmd) Name() string        { return "mkdir" }
func (mkdirCmd) Description() string { return "Create a folder (admin)" }
func (mkdirCmd) Usage() string       { return "mkdir <name> [parentId]" }

func (mkdirCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	in := folderInput{Name: args[0]}
	if len(args) == 2 && args[1] != rootArg {
		in.ParentID = &args[1]
	}
	var f model.Folder
	if err := newSession(cfg).call(ctx, http.MethodPost, "/api/folders", in, &f); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created folder %s\n", folderLine(f))
	return nil
}

type mvdirCmd struct{}

func (mvdirCmd) Name() string { return "mvdir" }
func (mvdirCmd) Description() string {
	return "Rename or move a folder (admin); parent '-' moves to top level"
}
func (mvdirCmd) Usage() string { return "mvdir <id> <newName> [newParentId|-]" }

func (mvdirCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	s := newSession(cfg)
	id := url.PathEscape(args[0])
	in := folderInput{Name: args[1]}
	switch {
	case len(args) == 3 && args[2] == rootArg:
	case len(args) == 3:
		in.ParentID = &args[2]
	default:
		// родитель не указан: остаёмся на месте
		var cur model.FolderDetails
		if err := s.call(ctx, http.MethodGet, "/api/folders/"+id, nil, &cur); err != nil {
			return err
		}
		in.ParentID = cur.ParentID
	}
	var f model.Folder
	if err := s.call(ctx, http.MethodPut, "/api/folders/"+id, in, &f); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Updated folder %s\n", folderLine(f))
	return nil
}

type rmdirCmd struct{}

func (rmdirCmd) Name() string        { return "rmdir" }
func (rmdirCmd) Description() string { return "Delete an empty folder (admin)" }
func (rmdirCmd) Usage() string       { return "rmdir <id>" }

func (rmdirCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newSession(cfg).call(ctx, http.MethodDelete, "/api/folders/"+url.PathEscape(args[0]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Folder deleted")
	return nil
}

type pathCmd struct{}

func (pathCmd) Name() string        { return "path" }
func (pathCmd) Description() string { return "Show the breadcrumb path of a folder" }
func (pathCmd) Usage() string       { return "path <folderId>" }

func (pathCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	var entries []model.FolderRef
	if err := newSession(cfg).call(ctx, http.MethodGet, "/api/folders/"+url.PathEscape(args[0])+"/path", nil, &entries); err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	fmt.Fprintln(Out, "/"+strings.Join(names, "/"))
	return nil
}

func init() {
	RegisterCmd(SectionFolders, foldersCmd{})
	RegisterCmd(SectionFolders, mkdirCmd{})
	RegisterCmd(SectionFolders, mvdirCmd{})
	RegisterCmd(SectionFolders, rmdirCmd{})
	RegisterCmd(SectionFolders, pathCmd{})
}
