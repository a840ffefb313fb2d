package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_InsertDelete(t *testing.T) {
	doc := NewDocument("hello world")

	require.NoError(t, doc.Insert(5, ","))
	assert.Equal(t, "hello, world", doc.Text())
	assert.Equal(t, 12, doc.Length())

	require.NoError(t, doc.Delete(5, 1))
	assert.Equal(t, "hello world", doc.Text())
}

func TestDocument_RuneOffsets(t *testing.T) {
	doc := NewDocument("héllo")
	assert.Equal(t, 5, doc.Length())

	text, err := doc.TextRange(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "éll", text)

	require.NoError(t, doc.Delete(1, 1))
	assert.Equal(t, "hllo", doc.Text())
}

func TestDocument_BoundsChecks(t *testing.T) {
	doc := NewDocument("abc")

	var rangeErr *ErrInvalidRange

	_, err := doc.TextRange(1, 5)
	require.ErrorAs(t, err, &rangeErr)

	err = doc.Insert(4, "x")
	require.ErrorAs(t, err, &rangeErr)

	err = doc.Delete(-1, 2)
	require.ErrorAs(t, err, &rangeErr)

	err = doc.Format(0, 4, Attributes{"bold": "true"})
	require.ErrorAs(t, err, &rangeErr)
}

func TestDocument_FormatSpansShiftOnInsert(t *testing.T) {
	doc := NewDocument("hello world")
	require.NoError(t, doc.Format(6, 5, Attributes{"background": "#e8f5e9"}))

	// Insert before the span: it moves right.
	require.NoError(t, doc.Insert(0, ">> "))
	assert.Empty(t, doc.FormatsAt(6))
	assert.Equal(t, Attributes{"background": "#e8f5e9"}, doc.FormatsAt(9))

	// Insert inside the span: it grows.
	require.NoError(t, doc.Insert(11, "xx"))
	assert.Equal(t, Attributes{"background": "#e8f5e9"}, doc.FormatsAt(15))
}

func TestDocument_FormatSpansTrimOnDelete(t *testing.T) {
	doc := NewDocument("hello world")
	require.NoError(t, doc.Format(6, 5, Attributes{"background": "#fff8e1"}))

	// Delete overlapping the start of the span.
	require.NoError(t, doc.Delete(4, 4))
	assert.Equal(t, "hellrld", doc.Text())
	assert.Equal(t, Attributes{"background": "#fff8e1"}, doc.FormatsAt(4))
	assert.Empty(t, doc.FormatsAt(2))

	// Deleting the rest of the span drops it entirely.
	require.NoError(t, doc.Delete(4, 3))
	assert.Empty(t, doc.FormatsAt(3))
}

func TestDocument_ClearFormatSplitsSpans(t *testing.T) {
	doc := NewDocument("abcdefghij")
	require.NoError(t, doc.Format(0, 10, Attributes{"background": "#e3f2fd"}))

	require.NoError(t, doc.ClearFormat(3, 4))

	assert.NotEmpty(t, doc.FormatsAt(1))
	assert.Empty(t, doc.FormatsAt(4))
	assert.NotEmpty(t, doc.FormatsAt(8))
}
