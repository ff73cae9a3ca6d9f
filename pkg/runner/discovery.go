package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/decaf/pkg/langdetect"
)

// sniffSize is how much of an extensionless file is read to detect it.
const sniffSize = 512

// Source is a discovered file.
type Source struct {
	// Path is absolute.
	Path string

	// Base is the root its output is mirrored from: the directory argument
	// that found it, or its own directory for a file argument.
	Base string

	Kind langdetect.Kind
}

// Discover finds convertible files under opts.Paths, sorted by path.
func Discover(ctx context.Context, opts Options) ([]Source, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{opts: opts, workDir: workDir, seen: make(map[string]bool)}
	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, absPath, absPath); err != nil {
				return nil, err
			}
			continue
		}
		// An explicitly named file skips the hidden-file rule.
		d.consider(absPath, filepath.Dir(absPath))
	}

	sort.Slice(d.found, func(i, j int) bool { return d.found[i].Path < d.found[j].Path })
	return d.found, nil
}

type discoverer struct {
	opts    Options
	workDir string
	seen    map[string]bool
	found   []Source
}

func (d *discoverer) walk(ctx context.Context, root, base string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		rel := d.rel(p)
		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (p != root && matchAny(rel, d.opts.ExcludeGlobs)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir does not follow links itself.
				return d.walk(ctx, target, target)
			}
		}

		d.consider(p, base)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (d *discoverer) consider(p, base string) {
	if d.seen[p] {
		return
	}
	rel := d.rel(p)
	if matchAny(rel, d.opts.ExcludeGlobs) {
		return
	}
	if len(d.opts.IncludeGlobs) > 0 && !matchAny(rel, d.opts.IncludeGlobs) {
		return
	}

	kind := langdetect.ByExtension(p)
	if kind == langdetect.KindNone && filepath.Ext(p) == "" {
		kind = sniff(p)
	}
	if kind == langdetect.KindNone || (kind == langdetect.KindLiterate && !d.opts.Literate) {
		return
	}

	d.seen[p] = true
	d.found = append(d.found, Source{Path: p, Base: base, Kind: kind})
}

func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		return p
	}
	return rel
}

// sniff classifies an extensionless file from its first bytes.
func sniff(p string) langdetect.Kind {
	f, err := os.Open(p)
	if err != nil {
		return langdetect.KindNone
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return langdetect.KindNone
	}
	return langdetect.Detect(buf[:n])
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// MatchGlob reports whether rel matches pattern. Patterns use '/' and
// support '**' for any number of directories. A pattern without '/' also
// matches the base name, so "*.test.coffee" works at any depth. A
// pattern matching a directory matches everything below it.
func MatchGlob(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}

	parts := strings.Split(rel, "/")
	pat := strings.Split(pattern, "/")
	// Try every prefix so a directory pattern covers its contents.
	for n := len(parts); n > 0; n-- {
		if matchSegments(parts[:n], pat) {
			return true
		}
	}
	return false
}

func matchSegments(parts, pat []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], parts[0]); !ok {
			return false
		}
		parts, pat = parts[1:], pat[1:]
	}
	return len(parts) == 0
}
