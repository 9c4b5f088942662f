// Package docxtest builds minimal DOCX files for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// Document returns a DOCX with one single-run paragraph per argument.
func Document(paragraphs ...string) []byte {
	runs := make([][]string, len(paragraphs))
	for i, p := range paragraphs {
		runs[i] = []string{p}
	}
	return Runs(runs...)
}

// Runs returns a DOCX where each paragraph is split into the given runs,
// the way Word splits text when formatting changes mid-word.
func Runs(paragraphs ...[]string) []byte {
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, runs := range paragraphs {
		body.WriteString(`<w:p><w:pPr><w:bidi/></w:pPr>`)
		for _, r := range runs {
			body.WriteString(`<w:r><w:rPr><w:rtl/></w:rPr><w:t>`)
			_ = xml.EscapeText(&body, []byte(r))
			body.WriteString(`</w:t></w:r>`)
		}
		body.WriteString(`</w:p>`)
	}
	body.WriteString(`<w:sectPr/></w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rels},
		{"word/document.xml", body.String()},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// LegalWarningHE returns a Hebrew legal warning template using the authored
// placeholder names, with the recipient name split across runs.
func LegalWarningHE() []byte {
	return Runs(
		[]string{"לכבוד: {{ שם ", "הנמען }}"},
		[]string{"כתובת: {{ כתובת }}"},
		[]string{"הנדון: {{ נושא }}"},
		[]string{"תאריך: {{ תאריך }}"},
		[]string{"בהתאם להסכם מיום {{ תאריך_הסכם }} עליך לשלם {{ סכום }} ₪ עד {{ תאריך_סופי }}."},
		[]string{"{{ שם השולח }}, {{ תפקיד }}"},
		[]string{"{{ חתימה }}"},
	)
}

// LegalWarningEN returns an English template keyed by canonical field names.
func LegalWarningEN() []byte {
	return Document(
		"To: {{ recipient_name }}",
		"Re: {{ subject }}",
		"Date: {{ date }}",
		"Under the agreement of {{ agreement_date }} you owe {{ amount }} by {{ due_date }}.",
		"{{ sender_name }}, {{ sender_role }}",
	)
}
