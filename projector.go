// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Node is one row of a projected single-level folder listing.
type Node struct {
	// Modified is entry time for files and latest descendant time for folders.
	Modified time.Time `json:"modified" yaml:"modified"`
	// Name is last path segment.
	Name string `json:"name" yaml:"name"`
	// Path is full normalized archive path.
	Path string `json:"path" yaml:"path"`
	// Size is file size, or total size of all files below a folder.
	Size int64 `json:"size" yaml:"size"`
	// CompressedSize is stored size, aggregated the same way as Size.
	CompressedSize int64 `json:"compressed_size" yaml:"compressed_size"`
	// Children is number of immediate children of a folder.
	Children int `json:"children,omitempty" yaml:"children,omitempty"`
	// IsDir reports a virtual or explicit folder.
	IsDir bool `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
}

// Breadcrumb is one clickable segment of a folder path.
type Breadcrumb struct {
	// Name is display label; root is "/".
	Name string `json:"name" yaml:"name"`
	// Path is folder path to jump to; root is "".
	Path string `json:"path" yaml:"path"`
}

// folderAccumulator collects folder node totals while projecting.
type folderAccumulator struct {
	node     Node
	children map[string]struct{}
}

// Project synthesizes the immediate children of prefix from a flat entry list.
// Entries deeper than one level collapse into folders carrying aggregated
// sizes; entries outside prefix are ignored. Folders come first, then files,
// each ordered by case-insensitive name.
func Project(entries []Entry, prefix string) ([]Node, error) {
	prefix = NormalizePath(prefix)
	if !IsFolder(entries, prefix) {
		return nil, fmt.Errorf("%w: %s", ErrNotAFolder, prefix)
	}

	folders := make(map[string]*folderAccumulator)
	files := make([]Node, 0)
	for _, entry := range entries {
		entryPath := NormalizePath(entry.Path)
		if entryPath == prefix || !hasDirPrefix(entryPath, prefix) {
			continue
		}

		rest := entryPath
		if prefix != "" {
			rest = entryPath[len(prefix)+1:]
		}

		name, below, nested := strings.Cut(rest, "/")
		if !nested && !entry.IsDir {
			files = append(files, Node{
				Name:           name,
				Path:           entryPath,
				Size:           entry.Size,
				CompressedSize: entry.CompressedSize,
				Modified:       entry.Modified,
			})
			continue
		}

		acc, ok := folders[name]
		if !ok {
			acc = &folderAccumulator{
				node:     Node{Name: name, Path: JoinPath(prefix, name), IsDir: true},
				children: make(map[string]struct{}),
			}
			folders[name] = acc
		}

		if nested {
			child, _, _ := strings.Cut(below, "/")
			acc.children[child] = struct{}{}
		}

		if !entry.IsDir {
			acc.node.Size += entry.Size
			acc.node.CompressedSize += entry.CompressedSize
		}

		if entry.Modified.After(acc.node.Modified) {
			acc.node.Modified = entry.Modified
		}
	}

	nodes := make([]Node, 0, len(folders)+len(files))
	for _, acc := range folders {
		acc.node.Children = len(acc.children)
		nodes = append(nodes, acc.node)
	}
	nodes = append(nodes, files...)

	sortNodes(nodes)
	return nodes, nil
}

// sortNodes orders folders before files, then by case-insensitive name.
func sortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}

		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})
}

// IsFolder reports whether p names root, an explicit folder record, or an implicit folder.
func IsFolder(entries []Entry, p string) bool {
	p = NormalizePath(p)
	if p == "" {
		return true
	}

	for _, entry := range entries {
		entryPath := NormalizePath(entry.Path)
		if entryPath == p && entry.IsDir {
			return true
		}

		if strings.HasPrefix(entryPath, p+"/") {
			return true
		}
	}

	return false
}

// Folders returns all folder paths, implicit and explicit, sorted.
func Folders(entries []Entry) []string {
	set := make(map[string]struct{})
	for _, entry := range entries {
		entryPath := NormalizePath(entry.Path)
		if entry.IsDir && entryPath != "" {
			set[entryPath] = struct{}{}
		}

		for dir := ParentPath(entryPath); dir != ""; dir = ParentPath(dir) {
			if _, seen := set[dir]; seen {
				break
			}

			set[dir] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for dir := range set {
		out = append(out, dir)
	}

	slices.Sort(out)
	return out
}

// NearestFolder returns p when it is still a folder, otherwise its closest existing ancestor.
func NearestFolder(entries []Entry, p string) string {
	p = NormalizePath(p)
	for p != "" && !IsFolder(entries, p) {
		p = ParentPath(p)
	}

	return p
}

// Breadcrumbs splits folder path into root-first clickable segments.
func Breadcrumbs(p string) []Breadcrumb {
	p = NormalizePath(p)
	crumbs := []Breadcrumb{{Name: "/", Path: ""}}
	if p == "" {
		return crumbs
	}

	parts := strings.Split(p, "/")
	for i, part := range parts {
		crumbs = append(crumbs, Breadcrumb{
			Name: part,
			Path: strings.Join(parts[:i+1], "/"),
		})
	}

	return crumbs
}
