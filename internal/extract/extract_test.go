package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		assert.NoError(t, err)
		_, err = f.Write([]byte(content))
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

const docxBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Acme builds robotics</w:t></w:r></w:p>
    <w:p><w:r><w:t>and automation software.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestTextFromDocx(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"word/document.xml":   docxBody,
		"word/unrelated.xml":  "<x>ignored</x>",
		"[Content_Types].xml": "<Types/>",
	})

	text, err := Text(data, "docx")

	assert.NoError(t, err)
	assert.Contains(t, text, "Acme builds robotics")
	assert.Contains(t, text, "and automation software.")
}

func TestTextFromPptx(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld xmlns:a="x" xmlns:p="y"><a:p><a:r><a:t>First slide</a:t></a:r></a:p></p:sld>`,
		"ppt/slides/slide2.xml": `<p:sld xmlns:a="x" xmlns:p="y"><a:p><a:r><a:t>Second slide</a:t></a:r></a:p></p:sld>`,
	})

	text, err := Text(data, "pptx")

	assert.NoError(t, err)
	assert.Contains(t, text, "First slide")
	assert.Contains(t, text, "Second slide")
	assert.Less(t, bytes.Index([]byte(text), []byte("First slide")), bytes.Index([]byte(text), []byte("Second slide")))
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text([]byte("whatever"), "txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Text([]byte("whatever"), "exe")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTextEmptyDocument(t *testing.T) {
	// Valid archive with the right part but no text runs.
	data := buildArchive(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="x"><w:body/></w:document>`,
	})
	_, err := Text(data, "docx")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	// Not a zip at all.
	_, err = Text([]byte("not a zip archive"), "docx")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	// Archive missing the document part.
	data = buildArchive(t, map[string]string{"other.xml": "<x/>"})
	_, err = Text(data, "docx")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestAllowedExtensions(t *testing.T) {
	for _, ext := range []string{"pdf", "pptx", "ppt", "docx"} {
		assert.True(t, AllowedExtensions[ext])
	}
	assert.False(t, AllowedExtensions["txt"])
}
