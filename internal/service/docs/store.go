package docs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed content/*.md
var embedded embed.FS

// Document is one reference document. Content is static for the process
// lifetime.
type Document struct {
	ID      string
	Title   string
	Content string
}

// Store holds the platform reference documents, keyed by two-digit IDs in
// file order ("01".."09"). An override directory replaces the embedded set.
type Store struct {
	ids  []string
	docs map[string]Document

	summaryOnce sync.Once
	summary     string
}

// NewStore loads documents from overrideDir when set, else from the embedded
// set.
func NewStore(overrideDir string) (*Store, error) {
	s := &Store{docs: make(map[string]Document)}

	var names []string
	read := func(name string) ([]byte, error) { return embedded.ReadFile("content/" + name) }

	if overrideDir != "" {
		entries, err := os.ReadDir(overrideDir)
		if err != nil {
			return nil, fmt.Errorf("read docs dir: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
				names = append(names, e.Name())
			}
		}
		read = func(name string) ([]byte, error) { return os.ReadFile(filepath.Join(overrideDir, name)) }
	} else {
		entries, err := embedded.ReadDir("content")
		if err != nil {
			return nil, fmt.Errorf("read embedded docs: %w", err)
		}
		for _, e := range entries {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		id := docID(name)
		if id == "" {
			continue
		}
		raw, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", name, err)
		}
		content := string(raw)
		s.ids = append(s.ids, id)
		s.docs[id] = Document{
			ID:      id,
			Title:   documentTitle(content, name),
			Content: content,
		}
	}
	if len(s.ids) == 0 {
		return nil, fmt.Errorf("no reference documents found")
	}
	return s, nil
}

// IDs lists the known document IDs in order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Get returns one document by ID.
func (s *Store) Get(id string) (Document, bool) {
	d, ok := s.docs[id]
	return d, ok
}

// Summaries renders the "## Summary" section of every document, computed
// once since content never changes within a process.
func (s *Store) Summaries() string {
	s.summaryOnce.Do(func() {
		var b strings.Builder
		for _, id := range s.ids {
			doc := s.docs[id]
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "[%s] %s\n%s", doc.ID, doc.Title, Section(doc.Content, "Summary"))
		}
		s.summary = b.String()
	})
	return s.summary
}

// Section extracts the text under the level-2 heading with the given title,
// up to the next heading of the same or higher level. Empty when absent.
func Section(content, heading string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	root := p.Parse([]byte(content))

	var (
		collecting bool
		parts      []string
	)
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if h, ok := node.(*ast.Heading); ok {
			if collecting && h.Level <= 2 {
				return ast.Terminate
			}
			if h.Level == 2 && strings.EqualFold(headingText(h), heading) {
				collecting = true
				return ast.SkipChildren
			}
			return ast.GoToNext
		}
		if !collecting {
			return ast.GoToNext
		}
		if leaf := node.AsLeaf(); leaf != nil && len(leaf.Literal) > 0 {
			parts = append(parts, string(leaf.Literal))
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func headingText(h *ast.Heading) string {
	var b strings.Builder
	for _, child := range h.Children {
		if leaf := child.AsLeaf(); leaf != nil {
			b.Write(leaf.Literal)
		}
	}
	return strings.TrimSpace(b.String())
}

func documentTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return filename
}

// docID pulls the two-digit prefix off a document filename.
func docID(name string) string {
	base := strings.TrimSuffix(name, ".md")
	if idx := strings.IndexByte(base, '_'); idx > 0 {
		base = base[:idx]
	}
	if len(base) != 2 || base < "01" || base > "99" {
		return ""
	}
	return base
}
