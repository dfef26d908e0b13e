package docs

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/stockcard"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# Card definition", "# History", "# Quotes", "# API"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopics(*) is missing %q", title)
		}
	}
	if _, err := GetTopics("card", "nope"); err == nil {
		t.Error("GetTopics(nope) want error")
	}
}

// TestCodeBlocks checks that examples in the documentation are valid.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, b := range codeBlocks(t, file) {
				switch b.Type {
				case "yaml":
					if _, err := stockcard.ParseConfig(strings.NewReader(b.Content)); err != nil {
						t.Errorf("%s:%d: invalid card definition: %v", b.File, b.Line, err)
					}
				case "json":
					if !json.Valid([]byte(b.Content)) {
						t.Errorf("%s:%d: invalid json", b.File, b.Line)
					}
				}
			}
		})
	}
}

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

func codeBlocks(t *testing.T, file string) []Block {
	t.Helper()
	source, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []Block
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		var content bytes.Buffer
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			content.Write(seg.Value(source))
		}
		line := 1
		if lines.Len() > 0 {
			line = bytes.Count(source[:lines.At(0).Start], []byte("\n"))
		}
		blocks = append(blocks, Block{
			Type:    string(fcb.Language(source)),
			Content: content.String(),
			File:    file,
			Line:    line,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}
