// Package document turns uploaded resume files into plain text and loads
// resume and job profiles from disk.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// DefaultMaxBytes is the largest accepted upload.
const DefaultMaxBytes int64 = 16 << 20

var (
	// ErrUnsupportedFormat is returned for extensions other than pdf, docx, txt and md.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrTooLarge is returned when input exceeds the configured byte limit.
	ErrTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrEmptyDocument is returned when extraction yields only whitespace.
	ErrEmptyDocument = errors.New("document contains no text")
)

// Format is a supported input file type, named by its extension.
type Format string

const (
	PDF      Format = ".pdf"
	DOCX     Format = ".docx"
	Text     Format = ".txt"
	Markdown Format = ".md"
)

// Document is the extracted text of a file.
type Document struct {
	Name     string            `json:"original_filename"`
	Format   Format            `json:"file_type"`
	Content  string            `json:"-"`
	Pages    int               `json:"pages,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FormatOf returns the format for filename or ErrUnsupportedFormat.
func FormatOf(filename string) (Format, error) {
	switch f := Format(strings.ToLower(filepath.Ext(filename))); f {
	case PDF, DOCX, Text, Markdown:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: .pdf, .docx, .txt, .md)", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Extract returns the text of data, interpreted according to the extension
// of filename. maxBytes of zero or less means DefaultMaxBytes.
func Extract(filename string, data []byte, maxBytes int64) (*Document, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), maxBytes)
	}

	doc := &Document{Name: filepath.Base(filename), Format: format}

	switch format {
	case PDF:
		err = extractPDF(data, doc)
	case DOCX:
		err = extractDOCX(data, doc)
	default:
		doc.Content = string(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	doc.Content = strings.TrimSpace(doc.Content)
	if doc.Content == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, doc.Name)
	}

	return doc, nil
}

// ExtractFile reads path and extracts its text.
func ExtractFile(path string, maxBytes int64) (*Document, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Extract(path, data, maxBytes)
}

// ReadLimited reads r up to maxBytes and fails with ErrTooLarge beyond that.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}

func extractPDF(data []byte, doc *Document) error {
	pdf, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer pdf.Close()

	doc.Pages = pdf.NumPage()

	var b strings.Builder
	for i := 0; i < doc.Pages; i++ {
		text, err := pdf.Text(i)
		if err != nil {
			return fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(text)
	}
	doc.Content = b.String()

	meta := make(map[string]string)
	for key, value := range pdf.Metadata() {
		if value = strings.TrimSpace(value); value != "" {
			meta[key] = value
		}
	}
	if len(meta) > 0 {
		doc.Metadata = meta
	}

	return nil
}

func extractDOCX(data []byte, doc *Document) error {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open DOCX: %w", err)
	}

	var body, core *zip.File
	for _, f := range archive.File {
		switch f.Name {
		case "word/document.xml":
			body = f
		case "docProps/core.xml":
			core = f
		}
	}
	if body == nil {
		return errors.New("word/document.xml not found")
	}

	rc, err := body.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if doc.Content, err = docxParagraphs(rc); err != nil {
		return err
	}

	if core != nil {
		if meta, err := docxProperties(core); err == nil && len(meta) > 0 {
			doc.Metadata = meta
		}
	}

	return nil
}

// docxParagraphs joins the text runs of every w:p element, one paragraph
// per line.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}

	return out.String(), nil
}

func docxProperties(f *zip.File) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var props struct {
		Title    string `xml:"title"`
		Subject  string `xml:"subject"`
		Creator  string `xml:"creator"`
		Keywords string `xml:"keywords"`
	}
	if err := xml.NewDecoder(rc).Decode(&props); err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for key, value := range map[string]string{
		"title":    props.Title,
		"subject":  props.Subject,
		"author":   props.Creator,
		"keywords": props.Keywords,
	} {
		if value = strings.TrimSpace(value); value != "" {
			meta[key] = value
		}
	}
	return meta, nil
}
