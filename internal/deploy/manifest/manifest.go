// Package manifest collects and hashes the files of a deployment.
package manifest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"

	"golang.org/x/sync/errgroup"
)

// ErrEmpty is returned when no files remain after applying ignore rules.
var ErrEmpty = errors.New("manifest: no files to deploy")

// Build walks path and returns the manifest of every file that is not
// ignored. path may be a directory or a single file; in the latter case
// the manifest root is the file's directory.
func Build(ctx context.Context, path string) (*domain.Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var root string
	var rels []string
	if info.IsDir() {
		root = abs
		matcher, err := LoadMatcher(root)
		if err != nil {
			return nil, err
		}
		rels, err = collect(root, matcher)
		if err != nil {
			return nil, err
		}
	} else {
		root = filepath.Dir(abs)
		rels = []string{filepath.Base(abs)}
	}

	if len(rels) == 0 {
		return nil, ErrEmpty
	}

	files, err := hashAll(ctx, root, rels)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return &domain.Manifest{Root: root, Files: files}, nil
}

// collect returns the slash-separated relative paths of all regular files
// under root that the matcher does not ignore.
func collect(root string, matcher *Matcher) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if matcher.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			rels = append(rels, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to walk %s: %w", root, err)
	}
	return rels, nil
}

// hashAll hashes files concurrently, bounded by the number of CPUs.
func hashAll(ctx context.Context, root string, rels []string) ([]domain.File, error) {
	files := make([]domain.File, len(rels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, rel := range rels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := hashFile(root, rel)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func hashFile(root, rel string) (domain.File, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return domain.File{}, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.File{}, fmt.Errorf("manifest: %w", err)
	}

	h := sha1.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return domain.File{}, fmt.Errorf("manifest: failed to hash %s: %w", rel, err)
	}

	return domain.File{
		Path: rel,
		SHA:  hex.EncodeToString(h.Sum(nil)),
		Size: n,
		Mode: uint32(info.Mode().Perm()),
	}, nil
}
