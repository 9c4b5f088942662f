package template

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"regexp"
	"strings"

	"letterapi/internal/apperr"
	"letterapi/internal/model"
)

var (
	// textRun matches a single <w:t> element; group 1 is the opening tag and
	// group 2 the escaped text. <w:tab/> and <w:tbl> do not match.
	textRun = regexp.MustCompile(`(<w:t(?:\s[^>]*)?>)([^<]*)</w:t>`)
	// textOrBreak additionally matches paragraph ends for ExtractText.
	textOrBreak = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>|</w:p>`)
	placeholder = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
	contentPart = regexp.MustCompile(`^word/(document|header[0-9]*|footer[0-9]*|footnotes|endnotes)\.xml$`)
)

// Template is a parsed DOCX template. It is read-only after Load and may be
// rendered concurrently.
type Template struct {
	Path         string
	raw          []byte
	placeholders []string
}

// Placeholders returns the distinct placeholder names in order of first use.
func (t *Template) Placeholders() []string {
	out := make([]string, len(t.placeholders))
	copy(out, t.placeholders)
	return out
}

// Renderer loads templates from the store and merges render contexts into them.
type Renderer struct {
	store fs.FS
}

// NewRenderer creates a Renderer reading from store.
func NewRenderer(store fs.FS) *Renderer {
	return &Renderer{store: store}
}

// Load reads and parses the template at path.
func (r *Renderer) Load(path string) (*Template, error) {
	data, err := fs.ReadFile(r.store, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.TemplateNotFound(path)
		}
		return nil, apperr.Render("read template "+path, err)
	}
	return Parse(path, data)
}

// Parse parses DOCX bytes into a Template.
func Parse(path string, data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Render("open template "+path, err)
	}

	seen := make(map[string]bool)
	var keys []string
	for _, f := range zr.File {
		if !contentPart.MatchString(f.Name) {
			continue
		}
		body, err := readEntry(f)
		if err != nil {
			return nil, apperr.Render("read template part "+f.Name, err)
		}
		for _, para := range splitParagraphs(string(body)) {
			text, _ := joinRuns(para)
			for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					keys = append(keys, m[1])
				}
			}
		}
	}
	return &Template{Path: path, raw: data, placeholders: keys}, nil
}

// Render substitutes every placeholder in t with its value from ctx and
// returns the new document. A placeholder without a bound value is an error;
// nothing is rendered blank.
func (r *Renderer) Render(t *Template, ctx model.RenderContext) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(t.raw), int64(len(t.raw)))
	if err != nil {
		return nil, apperr.Render("open template "+t.Path, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if !contentPart.MatchString(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, apperr.Render("copy template part "+f.Name, err)
			}
			continue
		}

		body, err := readEntry(f)
		if err != nil {
			return nil, apperr.Render("read template part "+f.Name, err)
		}
		out, err := substitute(string(body), ctx)
		if err != nil {
			return nil, err
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: f.Method, Modified: f.Modified})
		if err != nil {
			return nil, apperr.Render("write document part "+f.Name, err)
		}
		if _, err := io.WriteString(w, out); err != nil {
			return nil, apperr.Render("write document part "+f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, apperr.Render("finalize document", err)
	}
	return buf.Bytes(), nil
}

// ExtractText returns the visible text of the main document part, one line
// per paragraph.
func ExtractText(docx []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		body, err := readEntry(f)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, m := range textOrBreak.FindAllStringSubmatch(string(body), -1) {
			if m[0] == "</w:p>" {
				sb.WriteByte('\n')
				continue
			}
			sb.WriteString(html.UnescapeString(m[1]))
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("word/document.xml not found")
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// joinRuns concatenates the unescaped text of every <w:t> run in part and
// returns the run locations alongside it.
func joinRuns(part string) (string, [][]int) {
	locs := textRun.FindAllStringSubmatchIndex(part, -1)
	var sb strings.Builder
	for _, loc := range locs {
		sb.WriteString(html.UnescapeString(part[loc[4]:loc[5]]))
	}
	return sb.String(), locs
}

// splitParagraphs cuts part after every closing </w:p>. A placeholder never
// spans two paragraphs.
func splitParagraphs(part string) []string {
	var out []string
	for {
		i := strings.Index(part, "</w:p>")
		if i < 0 {
			return append(out, part)
		}
		end := i + len("</w:p>")
		out = append(out, part[:end])
		part = part[end:]
	}
}

// substitute replaces placeholders in one XML part, paragraph by paragraph.
func substitute(part string, ctx model.RenderContext) (string, error) {
	var out strings.Builder
	out.Grow(len(part))
	for _, para := range splitParagraphs(part) {
		s, err := substituteParagraph(para, ctx)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	return out.String(), nil
}

// substituteParagraph replaces placeholders in one paragraph. Word often
// splits a placeholder over several runs; the value goes into the run holding
// the opening braces and the remaining characters are removed from later runs,
// so the formatting of the first run wins.
func substituteParagraph(part string, ctx model.RenderContext) (string, error) {
	locs := textRun.FindAllStringSubmatchIndex(part, -1)
	if len(locs) == 0 {
		return part, nil
	}

	texts := make([]string, len(locs))
	offsets := make([]int, len(locs))
	var sb strings.Builder
	for i, loc := range locs {
		offsets[i] = sb.Len()
		texts[i] = html.UnescapeString(part[loc[4]:loc[5]])
		sb.WriteString(texts[i])
	}
	joined := sb.String()

	matches := placeholder.FindAllStringSubmatchIndex(joined, -1)
	if len(matches) == 0 {
		return part, nil
	}
	values := make([]string, len(matches))
	for i, m := range matches {
		key := joined[m[2]:m[3]]
		v, ok := ctx[key]
		if !ok {
			return "", apperr.Render(fmt.Sprintf("template references unbound placeholder %q", key), nil)
		}
		values[i] = v
	}

	var out strings.Builder
	out.Grow(len(part))
	prev, mi := 0, 0
	for i, loc := range locs {
		start, end := offsets[i], offsets[i]+len(texts[i])
		var nb strings.Builder
		for p := start; p < end; {
			for mi < len(matches) && matches[mi][1] <= p {
				mi++
			}
			if mi < len(matches) && matches[mi][0] <= p {
				if p == matches[mi][0] {
					nb.WriteString(values[mi])
				}
				p = min(end, matches[mi][1])
				continue
			}
			next := end
			if mi < len(matches) && matches[mi][0] < end {
				next = matches[mi][0]
			}
			nb.WriteString(joined[p:next])
			p = next
		}

		newText := nb.String()
		if newText == texts[i] {
			continue
		}
		out.WriteString(part[prev:loc[0]])
		open := part[loc[2]:loc[3]]
		if !strings.Contains(open, "xml:space") {
			open = `<w:t xml:space="preserve"` + strings.TrimPrefix(open, "<w:t")
		}
		out.WriteString(open)
		if err := xml.EscapeText(&out, []byte(newText)); err != nil {
			return "", apperr.Render("escape value", err)
		}
		out.WriteString("</w:t>")
		prev = loc[1]
	}
	out.WriteString(part[prev:])
	return out.String(), nil
}
