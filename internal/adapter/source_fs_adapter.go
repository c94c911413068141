// Package adapter contains the Go grammar and the infrastructure adapters
// (file system, patches, reports, build verification) used by spruce.
package adapter

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/modfile"
	m "spruce.dev/pkg/spruce/internal/model"
)

// ErrNoGoDirective is returned by GoVersion when go.mod has no go line.
var ErrNoGoDirective = errors.New("go.mod has no go directive")

// SourceFSAdapter abstracts the file system operations the cleanup workflow
// relies on, so the workflow can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Get resolves path patterns ("./...", "pkg/...", files) to Go source
	// files sorted by ShortPath. Files whose ShortPath matches one of the
	// exclude regexes are dropped.
	Get(roots []m.Path, exclude ...string) ([]m.File, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory.
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the contents of path, keeping its permissions.
	WriteFile(path m.Path, content []byte) error

	// HashFile returns the SHA-256 fingerprint of the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// FindProjectRoot searches for go.mod walking up the directory tree.
	FindProjectRoot(startPath m.Path) (m.Path, error)

	// GoVersion returns the go directive of the go.mod in projectRoot.
	GoVersion(projectRoot m.Path) (string, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// skippedDirs are never descended into while resolving "..." patterns.
var skippedDirs = map[string]struct{}{
	"vendor":       {},
	"testdata":     {},
	"node_modules": {},
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct {
	workDir string
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter that reports
// short paths relative to the current working directory.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &LocalSourceFSAdapter{workDir: wd}
}

// Get collects Go source files for the provided roots. Generated files,
// hidden directories and vendor, testdata and node_modules trees are skipped.
func (a *LocalSourceFSAdapter) Get(roots []m.Path, exclude ...string) ([]m.File, error) {
	patterns, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})

	var files []m.File

	collect := func(path string) error {
		file, ok, err := a.processFilePath(path, patterns)
		if err != nil || !ok {
			return err
		}

		if _, exists := seen[string(file.FullPath)]; exists {
			return nil
		}

		seen[string(file.FullPath)] = struct{}{}
		files = append(files, file)

		return nil
	}

	for _, root := range roots {
		rootPath, recursive, err := normalizeRootPath(string(root))
		if err != nil {
			return nil, err
		}

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if err := collect(rootPath); err != nil {
				return nil, err
			}

			continue
		}

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != rootPath && skipDir(info.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			return collect(path)
		})
		if err != nil {
			return nil, err
		}
	}

	slices.SortFunc(files, func(x, y m.File) int {
		return strings.Compare(string(x.ShortPath), string(y.ShortPath))
	})

	return files, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content through a temporary file in the same directory
// and renames it over path, so readers never see a partial file.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte) error {
	target := string(path)

	mode := os.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".spruce-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}

	return os.Rename(tmpName, target)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// FindProjectRoot searches for go.mod file walking up the directory tree.
// startPath may be a file or a directory; relative paths are resolved
// against the working directory first so the search can leave it.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startPath, err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// GoVersion reads the go directive of projectRoot/go.mod. Pre-release
// suffixes ("1.21rc2") are dropped.
func (a *LocalSourceFSAdapter) GoVersion(projectRoot m.Path) (string, error) {
	goModPath := filepath.Join(string(projectRoot), "go.mod")

	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", err
	}

	file, err := modfile.ParseLax(goModPath, data, nil)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", goModPath, err)
	}

	if file.Go == nil || file.Go.Version == "" {
		return "", ErrNoGoDirective
	}

	version := file.Go.Version
	if i := strings.IndexFunc(version, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i >= 0 {
		version = version[:i]
	}

	return version, nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

func (a *LocalSourceFSAdapter) processFilePath(path string, exclude []*regexp.Regexp) (m.File, bool, error) {
	if filepath.Ext(path) != ".go" {
		return m.File{}, false, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return m.File{}, false, err
	}

	short := absPath
	if rel, err := filepath.Rel(a.workDir, absPath); err == nil && !strings.HasPrefix(rel, "..") {
		short = rel
	}

	short = filepath.ToSlash(short)

	for _, pattern := range exclude {
		if pattern.MatchString(short) {
			return m.File{}, false, nil
		}
	}

	if isGenerated(absPath) {
		return m.File{}, false, nil
	}

	hash, err := a.HashFile(m.Path(absPath))
	if err != nil {
		return m.File{}, false, err
	}

	return m.File{FullPath: m.Path(absPath), ShortPath: m.Path(short), Hash: hash}, true, nil
}

// isGenerated reports whether the file carries a "Code generated ... DO NOT
// EDIT." header. Files that do not parse are not generated; the pipeline
// reports them.
func isGenerated(path string) bool {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments|parser.PackageClauseOnly)
	if err != nil {
		return false
	}

	return ast.IsGenerated(file)
}

func compileExcludes(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		if strings.TrimSpace(expr) == "" {
			continue
		}

		pattern, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, pattern)
	}

	return patterns, nil
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}

	_, ok := skippedDirs[name]

	return ok
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if rootStr == "..." {
		return ".", true
	}

	if strings.HasSuffix(rootStr, "/...") {
		return strings.TrimSuffix(rootStr, "/..."), true
	}

	return rootStr, false
}
