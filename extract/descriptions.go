package extract

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/carmsdata/carms-etl/schema"
)

// The description export changed shape over time: the current export is a
// JSON array of scraped pages, older exports were a zip of <program_id>.md
// files. The shape is resolved once at detection time so the parsing of ids
// and titles stays shared.

// SourceKind tags a description source shape.
type SourceKind int

const (
	SourceJSON SourceKind = iota
	SourceMarkdownZip
)

// Source is a resolved description export.
type Source struct {
	Kind SourceKind
	Path string
}

// DefaultTitle is used when a description record has no content to take a
// title from.
const DefaultTitle = "Program Description"

// DetectSource looks for a description export in dir: the named JSON file if
// present, otherwise the first zip archive. Returns false when dir holds
// neither — the pipeline then loads zero sections.
func DetectSource(dir, jsonName string) (Source, bool) {
	jsonPath := filepath.Join(dir, jsonName)
	if _, err := os.Stat(jsonPath); err == nil {
		return Source{Kind: SourceJSON, Path: jsonPath}, true
	}
	zips, err := filepath.Glob(filepath.Join(dir, "*.zip"))
	if err != nil || len(zips) == 0 {
		return Source{}, false
	}
	sort.Strings(zips)
	return Source{Kind: SourceMarkdownZip, Path: zips[0]}, true
}

// ParseDescriptions parses a description source into section records.
// Individual records with no recoverable program id are skipped; an error is
// returned only when the source itself cannot be opened or parsed, and the
// caller decides whether that fails the run.
func ParseDescriptions(src Source) ([]schema.Section, error) {
	switch src.Kind {
	case SourceJSON:
		return parseJSON(src.Path)
	case SourceMarkdownZip:
		return parseMarkdownZip(src.Path)
	default:
		return nil, fmt.Errorf("unknown description source kind %d", src.Kind)
	}
}

type descriptionRecord struct {
	PageContent string          `json:"page_content"`
	Metadata    json.RawMessage `json:"metadata"`
}

func parseJSON(path string) ([]schema.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptions: %w", err)
	}
	// Exports written on Windows carry a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var records []descriptionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse descriptions: %w", err)
	}

	var sections []schema.Section
	for _, rec := range records {
		var meta struct {
			Source string `json:"source"`
		}
		if len(rec.Metadata) > 0 {
			if err := json.Unmarshal(rec.Metadata, &meta); err != nil {
				continue
			}
		}
		id, ok := ProgramIDFromURL(meta.Source)
		if !ok {
			continue
		}
		sec := schema.Section{
			ProgramID: id,
			Title:     TitleFromContent(rec.PageContent),
			Content:   rec.PageContent,
		}
		if len(rec.Metadata) > 0 {
			extra := string(rec.Metadata)
			sec.ExtraData = &extra
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

func parseMarkdownZip(path string) ([]schema.Section, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptions zip: %w", err)
	}
	defer r.Close()

	var sections []schema.Section
	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(entry.Name)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		id, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		content := string(data)
		title := TitleFromContent(content)
		body := content
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			body = strings.TrimSpace(content[i+1:])
		} else {
			body = ""
		}
		sections = append(sections, schema.Section{
			ProgramID: id,
			Title:     title,
			Content:   body,
		})
	}
	return sections, nil
}

// ProgramIDFromURL derives a program id from a description source URL. The
// query string is dropped, the path is split on '/', and the last all-numeric
// segment of the final two wins (trailing slashes leave an empty last
// segment). Returns false when neither segment is numeric.
func ProgramIDFromURL(url string) (int64, bool) {
	path, _, _ := strings.Cut(url, "?")
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i >= 0 && i >= len(parts)-2; i-- {
		if isNumeric(parts[i]) {
			id, err := strconv.ParseInt(parts[i], 10, 64)
			if err != nil {
				return 0, false
			}
			return id, true
		}
	}
	return 0, false
}

// TitleFromContent takes the first line of a description, stripped of leading
// markdown heading markers and whitespace.
func TitleFromContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return DefaultTitle
	}
	line, _, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
