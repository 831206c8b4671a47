// Package walk enumerates regular files under a root directory and hands
// them to a sink in bounded batches.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	fsutil "github.com/s-show/tripick/internal/fs"
)

const defaultBatchSize = 1000

// Entry is one regular file discovered during traversal.
type Entry struct {
	// Path is the absolute path of the file.
	Path string
	// Rel is the slash-separated path relative to the walk root.
	Rel string
	// IsLink is set when the file was reached through a symbolic link.
	IsLink bool
}

// Options control traversal behavior.
type Options struct {
	// SkipNames lists directory names that are never entered.
	SkipNames []string
	// SkipPatterns lists doublestar globs matched against root-relative
	// slash paths. Matching files are dropped and matching directories
	// are pruned.
	SkipPatterns []string
	// SkipHidden drops hidden files and prunes hidden directories.
	SkipHidden bool
	// FollowSymlinks resolves symbolic links; without it links are
	// skipped entirely.
	FollowSymlinks bool
	// BatchSize bounds the number of entries handed to the sink at once.
	BatchSize int
	// Logger receives skip diagnostics. Defaults to a discard logger.
	Logger *log.Logger
}

// Walker traverses a directory tree depth-first.
type Walker struct {
	root      string
	opts      Options
	skipNames map[string]struct{}
	batchSize int
	log       *log.Logger
}

// New returns a walker rooted at root. The root must name an existing
// directory and every skip pattern must be a valid glob. The root is
// canonicalized so that traversal paths and resolved symlink targets are
// comparable during loop detection.
func New(root string, opts Options) (*Walker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("walk root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("walk root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk root %s: not a directory", abs)
	}

	for _, pattern := range opts.SkipPatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid skip pattern %q", pattern)
		}
	}

	skipNames := make(map[string]struct{}, len(opts.SkipNames))
	for _, name := range opts.SkipNames {
		skipNames[name] = struct{}{}
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Walker{
		root:      abs,
		opts:      opts,
		skipNames: skipNames,
		batchSize: batchSize,
		log:       logger,
	}, nil
}

// Root returns the absolute root the walker traverses.
func (w *Walker) Root() string {
	return w.root
}

type frame struct {
	abs   string
	rel   string
	ents  []os.DirEntry
	next  int
	read  bool
	batch []Entry
}

// Walk traverses the tree depth-first and calls sink with batches of at most
// BatchSize entries. Entries from one directory are delivered before the
// walk returns to its parent, with a partial batch flushed when the
// directory is exhausted. Cancellation is checked between entries; a
// cancelled walk stops yielding and returns nil. Unreadable directories
// below the root are treated as empty.
func (w *Walker) Walk(ctx context.Context, sink func([]Entry) error) error {
	stack := []*frame{{abs: w.root, rel: "."}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if !f.read {
			ents, err := os.ReadDir(f.abs)
			if err != nil {
				if f.rel == "." {
					return fmt.Errorf("walk root: %w", err)
				}
				if skippableReadError(err) {
					w.log.Debug("skipping unreadable directory", "path", f.abs, "err", err)
					stack = stack[:len(stack)-1]
					continue
				}
				return fmt.Errorf("read %s: %w", f.abs, err)
			}
			f.ents = ents
			f.read = true
		}

		pushed := false
		for f.next < len(f.ents) {
			if ctx.Err() != nil {
				return nil
			}

			ent := f.ents[f.next]
			f.next++

			name := ent.Name()
			abs := filepath.Join(f.abs, name)
			rel := joinRel(f.rel, name)
			mode := ent.Type()
			isLink := mode&iofs.ModeSymlink != 0

			if isLink {
				if !w.opts.FollowSymlinks {
					continue
				}
				info, err := os.Stat(abs)
				if err != nil {
					// Broken or vanished link.
					continue
				}
				mode = info.Mode()
			}

			switch {
			case mode.IsDir():
				if w.skipDir(name, rel, abs) {
					continue
				}
				if isLink && w.entersAncestor(abs) {
					w.log.Debug("skipping symlink loop", "path", abs)
					continue
				}
				stack = append(stack, &frame{abs: abs, rel: rel})
				pushed = true
			case mode.IsRegular():
				if w.skipFile(name, rel, abs) {
					continue
				}
				f.batch = append(f.batch, Entry{Path: abs, Rel: rel, IsLink: isLink})
				if len(f.batch) >= w.batchSize {
					if err := sink(f.batch); err != nil {
						return err
					}
					f.batch = nil
				}
			default:
				// Sockets, fifos and devices are not candidates.
			}

			if pushed {
				break
			}
		}
		if pushed {
			continue
		}

		if len(f.batch) > 0 {
			if err := sink(f.batch); err != nil {
				return err
			}
			f.batch = nil
		}
		stack = stack[:len(stack)-1]
	}

	return nil
}

func (w *Walker) skipDir(name, rel, abs string) bool {
	if _, ok := w.skipNames[name]; ok {
		return true
	}
	if fsutil.ShouldHideFromListing(abs, name) {
		return true
	}
	if w.opts.SkipHidden && fsutil.IsHidden(abs, name) {
		return true
	}
	return w.matchesSkipPattern(rel)
}

func (w *Walker) skipFile(name, rel, abs string) bool {
	if fsutil.ShouldHideFromListing(abs, name) {
		return true
	}
	if w.opts.SkipHidden && fsutil.IsHidden(abs, name) {
		return true
	}
	return w.matchesSkipPattern(rel)
}

func (w *Walker) matchesSkipPattern(rel string) bool {
	for _, pattern := range w.opts.SkipPatterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// entersAncestor reports whether descending through the symlink at abs would
// re-enter a directory already on the traversal path. The link is resolved
// to its real path; a real path that is a prefix of (or equal to) the
// traversal path means the link points at an ancestor.
func (w *Walker) entersAncestor(abs string) bool {
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return true
	}
	return pathHasPrefix(abs, real)
}

// skippableReadError reports whether a directory read failure leaves the
// subtree empty instead of aborting the walk. Permission problems, races
// with concurrent deletion and symlink chains the kernel refuses to resolve
// all qualify.
func skippableReadError(err error) bool {
	return errors.Is(err, iofs.ErrPermission) ||
		errors.Is(err, iofs.ErrNotExist) ||
		errors.Is(err, syscall.ELOOP)
}

func pathHasPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	return prefix == string(os.PathSeparator) || p[len(prefix)] == os.PathSeparator
}

func joinRel(parent, child string) string {
	if parent == "." || parent == "" {
		if child == "" {
			return "."
		}
		return child
	}
	return path.Join(parent, child)
}
