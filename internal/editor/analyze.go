package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/prompts"
)

// analysisSchema validates the completion's section map before any of it
// reaches the store.
const analysisSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "properties": {
      "start": {"type": "integer", "minimum": 0},
      "end": {"type": "integer", "minimum": 0}
    },
    "required": ["start", "end"],
    "additionalProperties": false
  }
}`

// lineSpan is a half-open span of zero-based line numbers.
type lineSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AnalyzeDocument asks the completion client to identify the sections of
// the document and creates a section for each one it reports. Line spans
// from the model are converted to rune offset ranges. Spans that are empty
// or fall outside the document after clamping are skipped rather than
// failing the whole analysis.
func AnalyzeDocument(ctx context.Context, client llm.Client, store *Store, buf TextBuffer) ([]Section, error) {
	text := buf.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &ErrInvalidRange{BufferLen: 0}
	}

	prompt := prompts.Format(prompts.MustGet("editor.json", "analyze-document"), map[string]string{
		"Content": NumberedLines(text),
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("analyzing document: %w", err)
	}
	cleaned := llm.CleanJSONBlock(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(analysisSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, fmt.Errorf("validating analysis response: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("analysis response does not match expected shape: %v", result.Errors())
	}

	var spans map[string]lineSpan
	if err := json.Unmarshal([]byte(cleaned), &spans); err != nil {
		return nil, fmt.Errorf("decoding analysis response: %w", err)
	}

	offsets := lineOffsets(text)
	bufLen := buf.Length()

	type candidate struct {
		name string
		span lineSpan
	}
	candidates := make([]candidate, 0, len(spans))
	for name, sp := range spans {
		candidates = append(candidates, candidate{name: name, span: sp})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].span.Start != candidates[j].span.Start {
			return candidates[i].span.Start < candidates[j].span.Start
		}
		return candidates[i].name < candidates[j].name
	})

	var created []Section
	for _, c := range candidates {
		r, ok := spanToRange(c.span, offsets, bufLen)
		if !ok {
			continue
		}

		kind, known := ParseKind(c.name)
		name := ""
		if !known {
			name = c.name
		}

		sec, err := store.Create(r, name, kind)
		if err != nil {
			continue
		}
		created = append(created, sec)
	}
	return created, nil
}

// NumberedLines prefixes each line of text with its zero-based line
// number, matching the numbering the analysis prompt asks the model to
// report spans in.
func NumberedLines(text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%d: %s\n", i, line)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// lineOffsets returns the rune offset of the start of each line, plus a
// final sentinel one past the last rune.
func lineOffsets(text string) []int {
	offsets := []int{0}
	pos := 0
	for _, r := range text {
		pos++
		if r == '\n' {
			offsets = append(offsets, pos)
		}
	}
	offsets = append(offsets, pos)
	return offsets
}

// spanToRange converts a zero-based, end-exclusive line span into a rune
// range, clamped to the document.
func spanToRange(sp lineSpan, offsets []int, bufLen int) (Range, bool) {
	lines := len(offsets) - 1
	if sp.Start < 0 || sp.End <= sp.Start || sp.Start >= lines {
		return Range{}, false
	}

	end := min(sp.End, lines)
	start := offsets[sp.Start]
	stop := min(offsets[end], bufLen)

	if stop <= start {
		return Range{}, false
	}
	return Range{Offset: start, Length: stop - start}, true
}
