package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Minimal OOXML packaging shared by the DOCX and PPTX renderers. Documents
// are plain Open Packaging Convention zips: a content-types manifest, a
// root relationships part and the document parts themselves.

type ooxmlPart struct {
	name string
	data []byte
}

// writePackage assembles the parts into a zip archive in order.
func writePackage(parts []ooxmlPart) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

// escapeXML escapes text for inclusion in XML character data.
func escapeXML(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// colorHex strips the leading # and uppercases, with a fallback default.
func colorHex(hex, fallback string) string {
	if len(hex) == 7 && hex[0] == '#' {
		return strings.ToUpper(hex[1:])
	}
	return fallback
}

// ooxmlFont maps the stored font preference onto document fonts.
func ooxmlFont(pref string) string {
	if pref == "sans-serif" {
		return "Calibri"
	}
	return "Cambria"
}
