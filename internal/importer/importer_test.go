package importer

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDOCX assembles a minimal .docx archive with the given document body.
func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Engineer</w:t><w:tab/><w:t>Acme Corp</w:t></w:r></w:p>
    <w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestFromDOCX(t *testing.T) {
	data := buildDOCX(t, docxBody)

	text, err := FromDOCX(data)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nEngineer\tAcme Corp\nLine one\nLine two\n", text)
}

func TestFromDOCX_NotAnArchive(t *testing.T) {
	_, err := FromDOCX([]byte("plain text, not a zip"))
	require.Error(t, err)
}

func TestFromDOCX_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = FromDOCX(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestFromHTML(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
	<h1>Jane Doe</h1>
	<p>Engineer at <b>Acme</b></p>
	<script>alert("no")</script>
	<ul><li>Go</li><li>SQL</li></ul>
	</body></html>`

	text, err := FromHTML([]byte(html))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nEngineer at Acme\nGo\nSQL\n", text)
}

func TestFromHTML_NoBody(t *testing.T) {
	text, err := FromHTML([]byte("<p>bare fragment</p>"))
	require.NoError(t, err)
	assert.Equal(t, "bare fragment\n", text)
}

func TestDetect(t *testing.T) {
	text, err := Detect("resume.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	text, err = Detect("Resume.HTML", []byte("<p>hi</p>"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", text)

	var unsupported *ErrUnsupportedFormat
	_, err = Detect("resume.pdf", nil)
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "pdf", unsupported.Format)

	_, err = Detect("noextension", nil)
	require.ErrorAs(t, err, &unsupported)
}
