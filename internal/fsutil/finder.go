// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnreadableSubtree marks a directory that was skipped during a walk.
var ErrUnreadableSubtree = errors.New("unreadable subtree")

// File is a matching file found during a walk.
type File struct {
	Path    string
	RelPath string // slash separated, relative to the walk root
	Depth   int    // number of directories between the root and the file
	ModTime time.Time
}

// Dir is a directory visited during a walk.
type Dir struct {
	Path    string
	ModTime time.Time
}

// Warning records a subtree that could not be read.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() []error {
	return []error{ErrUnreadableSubtree, w.Err}
}

// Tree is the result of WalkTree.
type Tree struct {
	Files    []File
	Dirs     []Dir
	Warnings []Warning
}

// WalkTree recursively collects the files under rootPath whose name ends
// with extension. Files and directories are reported in lexical order.
// Hidden directories are skipped. Unreadable subdirectories are recorded
// as warnings; only a failure on the root itself is returned as an error.
func WalkTree(rootPath, extension string) (*Tree, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	tree := &Tree{}
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			tree.Warnings = append(tree.Warnings, Warning{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			info, err := d.Info()
			if err != nil {
				tree.Warnings = append(tree.Warnings, Warning{Path: path, Err: err})
				return filepath.SkipDir
			}
			tree.Dirs = append(tree.Dirs, Dir{Path: path, ModTime: info.ModTime()})
			return nil
		}

		if !strings.HasSuffix(d.Name(), extension) || d.Name() == extension {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// removed between listing and stat
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		tree.Files = append(tree.Files, File{
			Path:    path,
			RelPath: rel,
			Depth:   strings.Count(rel, "/"),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	tree, err := WalkTree(rootPath, extension)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(tree.Files))
	for _, f := range tree.Files {
		files = append(files, f.Path)
	}
	return files, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
