package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raphi011/ftree/internal/log"
)

// Options controls directory listings.
type Options struct {
	ShowHidden bool
	DirsFirst  bool
	// MaxDepth stops listing below this depth. Zero means unlimited,
	// RootsOnly lists nothing.
	MaxDepth int
}

// RootsOnly is a MaxDepth that keeps every root unlisted.
const RootsOnly = -1

// FS is a directory tree rooted at a path on disk.
type FS struct {
	root string
	opts Options
	log  *log.Logger
}

// NewFS creates a directory source. The logger is taken from ctx.
func NewFS(ctx context.Context, root string, opts Options) *FS {
	return &FS{root: root, opts: opts, log: log.FromContext(ctx)}
}

// Roots returns the root directory as the only root node.
func (s *FS) Roots(ctx context.Context) ([]*Node, error) {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", s.root)
	}

	root := &Node{
		Name:    filepath.Base(abs),
		Path:    abs,
		Kind:    Dir,
		ModTime: info.ModTime(),
		owner:   s,
	}
	return []*Node{root}, nil
}

// Children lists n in a goroutine. Listing failures and nodes past
// MaxDepth close the channel without a value.
func (s *FS) Children(n *Node) (<-chan []*Node, error) {
	if n.Kind != Dir {
		return never(), nil
	}
	if s.opts.MaxDepth != 0 && n.Depth >= s.opts.MaxDepth {
		s.log.Debug("depth limit reached", "path", n.Path, "max_depth", s.opts.MaxDepth)
		return never(), nil
	}

	ch := make(chan []*Node, 1)
	go func() {
		defer close(ch)
		done := s.log.Fetch(n.Path)
		start := time.Now()
		children, err := s.list(n)
		done(time.Since(start))
		if err != nil {
			s.log.Debug("listing failed", "path", n.Path, "error", err)
			return
		}
		ch <- children
	}()
	return ch, nil
}

func (s *FS) list(parent *Node) ([]*Node, error) {
	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		return nil, err
	}

	children := make([]*Node, 0, len(entries))
	for _, e := range entries {
		if !s.opts.ShowHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		children = append(children, s.entry(parent, e))
	}

	if s.opts.DirsFirst {
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Kind == Dir && children[j].Kind != Dir
		})
	}
	return children, nil
}

func (s *FS) entry(parent *Node, e os.DirEntry) *Node {
	n := &Node{
		Name:  e.Name(),
		Path:  filepath.Join(parent.Path, e.Name()),
		Depth: parent.Depth + 1,
		owner: s,
	}

	info, err := e.Info()
	if err != nil {
		n.Kind = File
		n.Unreadable = true
		return n
	}
	n.Size = info.Size()
	n.ModTime = info.ModTime()

	switch mode := info.Mode(); {
	case mode.IsDir():
		n.Kind = Dir
	case mode&os.ModeSymlink != 0:
		n.Kind = Symlink
		n.Value, _ = os.Readlink(n.Path)
	default:
		n.Kind = File
	}
	return n
}
