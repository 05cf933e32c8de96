package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// RenderPDF renders a document as a branded PDF.
func RenderPDF(doc *Document, branding Branding) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	font := fontFamily(branding.FontPreference)
	pr, pg, pb := hexToRGB(branding.PrimaryColor, 31, 41, 55)
	sr, sg, sb := hexToRGB(branding.SecondaryColor, 107, 114, 128)

	// Header: logo on the left when present, church name on the right.
	y := 20.0
	if len(branding.Logo) > 0 {
		if format := sniffImageFormat(branding.Logo); format != "" {
			opts := fpdf.ImageOptions{ImageType: format, ReadDpi: true}
			pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(branding.Logo))
			pdf.ImageOptions("logo", 20, y, 0, 14, false, opts, 0, "")
		}
	}
	if branding.ChurchName != "" {
		pdf.SetFont(font, "", 10)
		pdf.SetTextColor(sr, sg, sb)
		pdf.SetXY(20, y)
		pdf.CellFormat(170, 14, branding.ChurchName, "", 0, "R", false, 0, "")
	}
	pdf.SetY(y + 20)

	// Title block
	pdf.SetFont(font, "B", 20)
	pdf.SetTextColor(pr, pg, pb)
	pdf.MultiCell(170, 9, doc.Title, "", "L", false)
	if doc.Subtitle != "" {
		pdf.SetFont(font, "I", 11)
		pdf.SetTextColor(sr, sg, sb)
		pdf.MultiCell(170, 6, doc.Subtitle, "", "L", false)
	}
	pdf.Ln(4)

	for _, sec := range doc.Sections {
		pdf.SetFont(font, "B", 13)
		pdf.SetTextColor(pr, pg, pb)
		pdf.MultiCell(170, 7, sec.Heading, "", "L", false)
		pdf.Ln(1)

		pdf.SetFont(font, "", 11)
		pdf.SetTextColor(40, 40, 40)
		for _, para := range sec.Paragraphs {
			pdf.MultiCell(170, 5.5, para, "", "L", false)
			pdf.Ln(1.5)
		}
		for _, bullet := range sec.Bullets {
			pdf.SetX(26)
			pdf.MultiCell(164, 5.5, "• "+bullet, "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// fontFamily maps the stored preference onto fpdf's built-in fonts.
func fontFamily(pref string) string {
	if pref == "sans-serif" {
		return "Arial"
	}
	return "Times"
}

// hexToRGB parses #RRGGBB, falling back to the given default on bad input.
func hexToRGB(hex string, dr, dg, db int) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return dr, dg, db
	}
	r, err1 := strconv.ParseInt(hex[1:3], 16, 0)
	g, err2 := strconv.ParseInt(hex[3:5], 16, 0)
	b, err3 := strconv.ParseInt(hex[5:7], 16, 0)
	if err1 != nil || err2 != nil || err3 != nil {
		return dr, dg, db
	}
	return int(r), int(g), int(b)
}

// sniffImageFormat detects png or jpg from magic bytes. Other formats are
// skipped rather than failing the whole export.
func sniffImageFormat(data []byte) string {
	if len(data) >= 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		return "PNG"
	}
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "JPG"
	}
	return ""
}
