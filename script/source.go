package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/nickyhof/ifxsql/remote"
)

const gitPrefix = "git+"

var (
	ErrNoScriptPath = errors.New("git source needs a script path after '#'")
	ErrEmptyScript  = errors.New("script is empty")
)

// Options configure where scripts are read from.
type Options struct {
	S3  *remote.S3Config
	Git *GitAuth
}

// Load reads a script from a local path, an HTTP(S) URL, an S3 object or
// a file in a git repository. Git sources are written as
//
//	git+<repository url>#<path in repository>[@<branch>]
//
// and are cloned into memory.
func Load(ctx context.Context, source string, opts Options) (string, error) {
	if strings.HasPrefix(source, gitPrefix) {
		return loadGit(source[len(gitPrefix):], opts.Git)
	}

	switch remote.DetectScheme(source) {
	case remote.SchemeLocal, remote.SchemeFile:
		return loadLocal(strings.TrimPrefix(source, "file://"))
	default:
		r, err := remote.OpenReader(ctx, source, opts.S3)
		if err != nil {
			return "", err
		}
		defer r.Close()
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		return string(b), nil
	}
}

func loadLocal(path string) (string, error) {
	return readFile(osfs.New(""), path)
}

func readFile(fs billy.Filesystem, path string) (string, error) {
	b, err := util.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read script '%s': %w", path, err)
	}
	return string(b), nil
}

// parseGitSource splits "url#path@branch".
func parseGitSource(source string) (url, path, branch string, err error) {
	i := strings.LastIndexByte(source, '#')
	if i < 0 || i == len(source)-1 {
		return "", "", "", ErrNoScriptPath
	}
	url, path = source[:i], source[i+1:]
	if j := strings.LastIndexByte(path, '@'); j >= 0 {
		path, branch = path[:j], path[j+1:]
	}
	if path == "" {
		return "", "", "", ErrNoScriptPath
	}
	return url, path, branch, nil
}

func loadGit(source string, auth *GitAuth) (string, error) {
	url, path, branch, err := parseGitSource(source)
	if err != nil {
		return "", err
	}

	authMethod, err := auth.authMethod()
	if err != nil {
		return "", fmt.Errorf("failed to configure auth: %w", err)
	}

	opts := &git.CloneOptions{
		URL:  url,
		Auth: authMethod,
	}
	if s := remote.DetectScheme(url); s == remote.SchemeHTTP || s == remote.SchemeHTTPS {
		// The in-process file transport does not serve shallow fetches.
		opts.Depth = 1
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	wt := memfs.New()
	if _, err := git.Clone(memory.NewStorage(), wt, opts); err != nil {
		return "", fmt.Errorf("failed to clone '%s': %w", url, err)
	}
	return readFile(wt, path)
}
