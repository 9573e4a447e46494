package static

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/raphi011/ftree/internal/source"
	"github.com/raphi011/ftree/internal/ui/styles"
)

const doc = `
app:
  name: demo
  ports:
    - 80
    - 443
  debug: false
owner: me
`

func docRows(t *testing.T) []source.Row {
	t.Helper()
	d, err := source.ParseDocument("doc", []byte(doc), source.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	roots, _ := d.Roots(context.Background())
	rows, err := source.NewFlattener(d).Flatten(roots)
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestRenderTree_Guides(t *testing.T) {
	styles.SetNerdfont(false)

	got := ansi.Strip(RenderTree(docRows(t), TreeOptions{
		Guides:   true,
		Expanded: func(source.Row) bool { return true },
	}))
	want := strings.Join([]string{
		"▾ doc",
		"├── ▾ app",
		"│   ├──   name: demo",
		"│   ├── ▾ ports",
		"│   │   ├──   0: 80",
		"│   │   └──   1: 443",
		"│   └──   debug: false",
		"└──   owner: me",
		"",
	}, "\n")
	if got != want {
		t.Errorf("RenderTree() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTree_Indent(t *testing.T) {
	styles.SetNerdfont(false)

	rows := docRows(t)[:3]
	got := ansi.Strip(RenderTree(rows, TreeOptions{Indent: 3}))
	want := "▸ doc\n   ▸ app\n        name: demo\n"
	if got != want {
		t.Errorf("RenderTree() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderTree_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderTree(nil, TreeOptions{Guides: true}); got != "" {
		t.Errorf("RenderTree(nil) = %q, want empty", got)
	}
}

func TestLabel(t *testing.T) {
	styles.SetNerdfont(false)

	tests := []struct {
		name string
		row  source.Row
		want string
	}{
		{
			name: "symlink shows target",
			row:  source.Transform(&source.Node{Name: "l", Kind: source.Symlink, Value: "/t"}, 1),
			want: "  l -> /t",
		},
		{
			name: "unreadable dir is a leaf",
			row:  source.Transform(&source.Node{Name: "d", Kind: source.Dir, Unreadable: true}, 1),
			want: "  d",
		},
		{
			name: "collapsed object",
			row:  source.Transform(&source.Node{Name: "o", Kind: source.Object}, 0),
			want: "▸ o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ansi.Strip(Label(tt.row, false, false)); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabel_Links(t *testing.T) {
	styles.SetNerdfont(false)

	file := source.Transform(&source.Node{Name: "f", Path: "/x/f", Kind: source.File}, 0)
	if got := Label(file, false, true); !strings.Contains(got, "file:///x/f") {
		t.Errorf("Label() with links = %q, want OSC 8 link", got)
	}
	value := source.Transform(&source.Node{Name: "v", Path: "/x/d.json#/v", Kind: source.Value}, 0)
	if got := Label(value, false, true); strings.Contains(got, "file://") {
		t.Errorf("document values should not be linked, got %q", got)
	}
}

func TestRenderLong(t *testing.T) {
	styles.SetNerdfont(false)

	rows := []source.Row{
		source.Transform(&source.Node{Name: "big.bin", Kind: source.File, Size: 2048, ModTime: time.Now().Add(-2 * time.Hour)}, 0),
		source.Transform(&source.Node{Name: "list", Kind: source.Array, Size: 1200}, 0),
		source.Transform(&source.Node{Name: "one", Kind: source.Object, Size: 1}, 0),
	}
	got := ansi.Strip(RenderLong(rows, TreeOptions{}))

	for _, want := range []string{"NAME", "KIND", "SIZE", "MODIFIED", "2.0 KiB", "2 hours ago", "1,200 items", "1 item", "array"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderLong() missing %q in\n%s", want, got)
		}
	}
}
