package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	TypeText = "text/plain"
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoText          = errors.New("no extractable text")
)

// ExtractFile reads the resume at path and returns its plain text.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return ExtractText(f, info.Size(), filepath.Base(path))
}

// ExtractText returns the plain text of a .txt, .pdf or .docx payload. The type comes from
// fileName's extension, or from the leading bytes when the extension is unknown.
func ExtractText(r io.ReaderAt, size int64, fileName string) (string, error) {
	head := make([]byte, min(size, 512))
	if _, err := r.ReadAt(head, 0); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("extract %s: read: %w", fileName, err)
	}

	var (
		text string
		err  error
	)
	switch kind := DetectType(fileName, head); kind {
	case TypeText:
		text, err = extractPlain(r, size)
	case TypePDF:
		text, err = extractPDF(r, size)
	case TypeDOCX:
		text, err = extractDOCX(r, size)
	default:
		return "", fmt.Errorf("extract %s: %w", fileName, ErrUnsupportedType)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", fileName, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("extract %s: %w", fileName, ErrNoText)
	}
	return text, nil
}

// DetectType maps a file to TypeText, TypePDF or TypeDOCX, or "" when unsupported.
func DetectType(fileName string, head []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".text", ".md":
		return TypeText
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	}
	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return TypePDF
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		// Any other zip container is rejected by the docx reader.
		return TypeDOCX
	case len(head) > 0 && utf8.Valid(head) && !bytes.ContainsRune(head, 0):
		return TypeText
	}
	return ""
}

func extractPlain(r io.ReaderAt, size int64) (string, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrUnsupportedType
	}
	return string(data), nil
}

func extractPDF(r io.ReaderAt, size int64) (string, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(r io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(r, size)
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps character data and turns paragraph and line breaks into newlines.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
