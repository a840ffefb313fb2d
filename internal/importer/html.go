package importer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Block-level elements that end a line when converting HTML to text.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "article": true, "header": true, "footer": true,
}

// FromHTML extracts readable text from an HTML document. Block elements
// produce line breaks; scripts and styles are dropped.
func FromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	collectText(root, &sb)

	return normalizeLines(sb.String()), nil
}

func collectText(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			sb.WriteString(node.Text())
			return
		}
		collectText(node, sb)
		if blockElements[goquery.NodeName(node)] {
			sb.WriteString("\n")
		}
	})
}

// normalizeLines trims per-line whitespace and collapses runs of blank
// lines, ending with a single trailing newline.
func normalizeLines(text string) string {
	var lines []string
	blank := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				lines = append(lines, "")
			}
			blank = true
			continue
		}
		lines = append(lines, line)
		blank = false
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
