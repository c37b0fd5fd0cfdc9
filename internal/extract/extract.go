// Package extract pulls plain text out of uploaded vendor documents.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptyDocument     = errors.New("empty or invalid document")
)

// AllowedExtensions is the closed set of upload formats.
var AllowedExtensions = map[string]bool{
	"pdf":  true,
	"pptx": true,
	"ppt":  true,
	"docx": true,
}

// Text extracts the readable text from a document given its bytes and file
// extension (without the dot).
func Text(data []byte, extension string) (string, error) {
	var text string
	var err error

	switch strings.ToLower(extension) {
	case "pdf":
		text, err = pdfText(data)
	case "docx":
		text, err = ooxmlText(data, isDocxPart, "t", "p")
	case "pptx", "ppt":
		text, err = ooxmlText(data, isSlidePart, "t", "p")
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

func isDocxPart(name string) bool {
	return name == "word/document.xml"
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml")
}

// ooxmlText walks the XML parts of an OOXML archive and collects the
// character data inside text run elements (w:t for docx, a:t for pptx),
// breaking lines at paragraph ends.
func ooxmlText(data []byte, wanted func(string) bool, textLocal, paraLocal string) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ErrEmptyDocument
	}

	var parts []*zip.File
	for _, f := range archive.File {
		if wanted(f.Name) {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyDocument
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })

	var sb strings.Builder
	for _, part := range parts {
		rc, err := part.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open part %s: %w", part.Name, err)
		}
		if err := collectRuns(rc, &sb, textLocal, paraLocal); err != nil {
			rc.Close()
			return "", err
		}
		rc.Close()
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func collectRuns(r io.Reader, sb *strings.Builder, textLocal, paraLocal string) error {
	decoder := xml.NewDecoder(r)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ErrEmptyDocument
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textLocal {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == textLocal {
				inText = false
			}
			if t.Name.Local == paraLocal {
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
}
