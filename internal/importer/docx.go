// Package importer extracts plain text from the document formats users
// upload or paste, so the editor always starts from a text buffer.
package importer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedFormat indicates an upload in a format no extractor
// handles.
type ErrUnsupportedFormat struct {
	Format string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.Format)
}

// FromDOCX extracts the text of a .docx file. Paragraphs become newline
// separated lines; tabs and explicit line breaks inside a paragraph are
// preserved. Formatting, tables layout, and images are discarded.
func FromDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	var doc *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("opening document body: %w", err)
	}
	defer rc.Close()

	text, err := wordXMLToText(rc)
	if err != nil {
		return "", fmt.Errorf("parsing document body: %w", err)
	}
	return text, nil
}

// wordXMLToText walks the WordprocessingML token stream and collects the
// text runs. Only the w:t, w:p, w:br, and w:tab elements matter for plain
// text output.
func wordXMLToText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}
