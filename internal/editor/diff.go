package editor

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffTag classifies a diff segment.
type DiffTag string

const (
	DiffSame    DiffTag = "same"
	DiffRemoved DiffTag = "removed"
	DiffAdded   DiffTag = "added"
)

// DiffSegment is one word of a word-level diff.
type DiffSegment struct {
	Tag  DiffTag `json:"tag"`
	Text string  `json:"text"`
}

// Diff computes a word-level diff between two texts. Words are whitespace
// separated tokens; whitespace itself is not diffed. Removed words come
// before added words at each change point, so a preview can render strike
// through then insertion in reading order.
func Diff(before, after string) []DiffSegment {
	beforeWords := strings.Fields(before)
	afterWords := strings.Fields(after)

	enc := newWordEncoder()
	a := enc.encode(beforeWords)
	b := enc.encode(afterWords)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	dmp.DiffCleanupSemantic(diffs)

	var segments []DiffSegment
	for _, d := range diffs {
		tag := DiffSame
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			tag = DiffRemoved
		case diffmatchpatch.DiffInsert:
			tag = DiffAdded
		}
		for _, r := range d.Text {
			segments = append(segments, DiffSegment{Tag: tag, Text: enc.decode(r)})
		}
	}
	return segments
}

// wordEncoder maps distinct words to distinct runes so the rune-based diff
// algorithm operates on whole words. Runes in the surrogate range are
// skipped since they cannot round-trip through a string.
type wordEncoder struct {
	toRune map[string]rune
	toWord map[rune]string
	next   rune
}

func newWordEncoder() *wordEncoder {
	return &wordEncoder{
		toRune: make(map[string]rune),
		toWord: make(map[rune]string),
		next:   1,
	}
}

func (e *wordEncoder) encode(words []string) string {
	var sb strings.Builder
	for _, w := range words {
		r, ok := e.toRune[w]
		if !ok {
			if e.next >= 0xD800 && e.next <= 0xDFFF {
				e.next = 0xE000
			}
			r = e.next
			e.next++
			e.toRune[w] = r
			e.toWord[r] = w
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (e *wordEncoder) decode(r rune) string {
	return e.toWord[r]
}
