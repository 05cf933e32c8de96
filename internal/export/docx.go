package export

import (
	"fmt"
	"strings"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`

// RenderDOCX renders a document as a Word file. Styling is inlined per run:
// heading color from the primary brand color, body text in the preferred
// font family.
func RenderDOCX(doc *Document, branding Branding) ([]byte, error) {
	primary := colorHex(branding.PrimaryColor, "1F2937")
	secondary := colorHex(branding.SecondaryColor, "6B7280")
	font := ooxmlFont(branding.FontPreference)

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	if branding.ChurchName != "" {
		writeDocxParagraph(&body, branding.ChurchName, font, secondary, 18, false, false)
	}
	writeDocxParagraph(&body, doc.Title, font, primary, 40, true, false)
	if doc.Subtitle != "" {
		writeDocxParagraph(&body, doc.Subtitle, font, secondary, 22, false, true)
	}

	for _, sec := range doc.Sections {
		writeDocxParagraph(&body, sec.Heading, font, primary, 28, true, false)
		for _, para := range sec.Paragraphs {
			writeDocxParagraph(&body, para, font, "333333", 22, false, false)
		}
		for _, bullet := range sec.Bullets {
			writeDocxBullet(&body, bullet, font)
		}
	}

	body.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134"/></w:sectPr>`)
	body.WriteString(`</w:body></w:document>`)

	return writePackage([]ooxmlPart{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/_rels/document.xml.rels", []byte(docxDocumentRels)},
		{"word/document.xml", []byte(body.String())},
	})
}

// writeDocxParagraph emits one paragraph. size is in half-points.
func writeDocxParagraph(b *strings.Builder, text, font, color string, size int, bold, italic bool) {
	b.WriteString(`<w:p><w:r><w:rPr>`)
	fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, font, font)
	fmt.Fprintf(b, `<w:color w:val="%s"/>`, color)
	fmt.Fprintf(b, `<w:sz w:val="%d"/>`, size)
	if bold {
		b.WriteString(`<w:b/>`)
	}
	if italic {
		b.WriteString(`<w:i/>`)
	}
	b.WriteString(`</w:rPr>`)
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(text))
	b.WriteString(`</w:r></w:p>`)
}

// writeDocxBullet emits an indented paragraph with a literal bullet glyph,
// avoiding a numbering part for such a simple list.
func writeDocxBullet(b *strings.Builder, text, font string) {
	b.WriteString(`<w:p><w:pPr><w:ind w:left="567"/></w:pPr><w:r><w:rPr>`)
	fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, font, font)
	b.WriteString(`<w:color w:val="333333"/><w:sz w:val="22"/></w:rPr>`)
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML("• "+text))
	b.WriteString(`</w:r></w:p>`)
}
