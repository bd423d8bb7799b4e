package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Chunk is one piece of a document prepared for embedding.
type Chunk struct {
	Index int
	Text  string
}

// frontMatter holds the YAML metadata block at the top of a document.
type frontMatter struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// DocumentMeta is the metadata extracted from a document during chunking.
type DocumentMeta struct {
	Title  string
	Author string
}

// Chunker splits markdown and plain-text documents into overlapping
// fixed-size windows. Sizes are measured in runes so multi-byte text
// is never cut mid-character.
type Chunker struct {
	parser  goldmark.Markdown
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap in runes.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
		size:    size,
		overlap: overlap,
	}
}

// Chunk extracts document metadata and splits the content into chunks.
//
// A YAML front matter block supplies title and author when present. The title
// falls back to the first level-1 or level-2 markdown heading, then to the
// filename. Markdown structure is flattened to plain text before windowing so
// embeddings are not polluted with syntax.
func (c *Chunker) Chunk(content []byte, filename string) (DocumentMeta, []Chunk, error) {
	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return DocumentMeta{}, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}

	doc := c.parser.Parser().Parse(text.NewReader(body))

	meta := DocumentMeta{
		Title:  fm.Title,
		Author: fm.Author,
	}
	if meta.Title == "" {
		meta.Title = firstHeading(doc, body)
	}
	if meta.Title == "" {
		meta.Title = titleFromFilename(filename)
	}

	plain := extractPlainText(doc, body)
	if strings.TrimSpace(plain) == "" {
		return meta, []Chunk{}, nil
	}

	chunks := c.window(plain)
	return meta, chunks, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
// Content without a front matter block is returned unchanged.
func splitFrontMatter(content []byte) (frontMatter, []byte, error) {
	var fm frontMatter

	trimmed := bytes.TrimLeft(content, "\uFEFF")
	if !bytes.HasPrefix(trimmed, []byte("---\n")) && !bytes.HasPrefix(trimmed, []byte("---\r\n")) {
		return fm, content, nil
	}

	rest := trimmed[bytes.IndexByte(trimmed, '\n')+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end == -1 {
		return fm, content, nil
	}

	block := rest[:end]
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return frontMatter{}, nil, err
	}

	body := rest[end+len("\n---"):]
	body = bytes.TrimLeft(body, "\r\n")
	return fm, body, nil
}

// firstHeading returns the text of the first level-1 heading, or the first
// level-2 heading when no level-1 exists.
func firstHeading(doc ast.Node, content []byte) string {
	var h1, h2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := nodeText(heading, content)
		switch {
		case heading.Level == 1 && h1 == "":
			h1 = headingText
			return ast.WalkStop, nil
		case heading.Level == 2 && h2 == "":
			h2 = headingText
		}
		return ast.WalkContinue, nil
	})

	if h1 != "" {
		return h1
	}
	return h2
}

// titleFromFilename drops the extension and capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
			words[i] = string(runes)
		}
	}
	return strings.Join(words, " ")
}

// extractPlainText flattens the markdown AST to plain text, keeping paragraph
// breaks so the windowing step can prefer them as split points.
func extractPlainText(doc ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock:
			writeLines(&b, node.Lines(), content)
		case *ast.FencedCodeBlock:
			writeLines(&b, node.Lines(), content)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, lines *text.Segments, content []byte) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(content))
	}
}

// nodeText collects the text content of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// window splits text into chunks of at most c.size runes, each overlapping the
// previous by c.overlap runes. Split points prefer paragraph, then line, then
// sentence boundaries inside the window.
func (c *Chunker) window(plain string) []Chunk {
	runes := []rune(plain)

	if len(runes) <= c.size {
		return []Chunk{{Index: 0, Text: plain}}
	}

	var chunks []Chunk
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:])})
			break
		}

		windowText := string(runes[start:end])
		split := end
		if i := strings.LastIndex(windowText, "\n\n"); i > 0 {
			split = start + len([]rune(windowText[:i+2]))
		} else if i := strings.LastIndex(windowText, "\n"); i > 0 {
			split = start + len([]rune(windowText[:i+1]))
		} else if i := strings.LastIndex(windowText, ". "); i > 0 {
			split = start + len([]rune(windowText[:i+2]))
		}

		chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:split])})

		next := split - c.overlap
		if next <= start {
			next = split
		}
		start = next
	}

	return chunks
}
