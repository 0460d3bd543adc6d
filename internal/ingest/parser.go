package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/ledongthuc/pdf"
)

var ErrUnsupported = errors.New("unsupported file type")

// Extensions lists the file types Parse understands.
var Extensions = []string{".docx", ".htm", ".html", ".markdown", ".md", ".pdf", ".txt"}

type Parsed struct {
	Title      string
	SourcePath string
	Text       string
}

func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

func ParseFile(path string) (*Parsed, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text, err := Parse(filepath.Ext(path), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Parsed{
		Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SourcePath: path,
		Text:       text,
	}, nil
}

// Parse extracts prose from raw file content. Plain text and markdown
// are returned unchanged; other formats are converted and have their
// whitespace normalized with paragraphs separated by a blank line.
func Parse(ext string, raw []byte) (string, error) {
	switch strings.ToLower(ext) {
	case ".txt", ".md", ".markdown":
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("file is not valid UTF-8")
		}
		return string(raw), nil
	case ".html", ".htm":
		text, err := parseHTML(raw)
		if err != nil {
			return "", err
		}
		return normalizeWhitespace(text), nil
	case ".docx":
		text, err := parseDOCX(raw)
		if err != nil {
			return "", err
		}
		return normalizeWhitespace(text), nil
	case ".pdf":
		text, err := parsePDF(raw)
		if err != nil {
			return "", err
		}
		return normalizeWhitespace(text), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
}

var htmlConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

func parseHTML(raw []byte) (string, error) {
	md, err := htmlConverter.ConvertString(string(raw))
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return md, nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return "", fmt.Errorf("open document.xml: %w", openErr)
			}
			defer rc.Close()
			xmlData, err = io.ReadAll(rc)
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if b.Len() > 0 {
					b.WriteString("\n\n")
				}
			case "tab":
				b.WriteString(" ")
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.WriteString(string(t))
			}
		}
	}
	return b.String(), nil
}

func parsePDF(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

// normalizeWhitespace collapses runs of spaces inside lines and keeps at
// most one blank line between paragraphs.
func normalizeWhitespace(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
