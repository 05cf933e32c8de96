package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sermonforge_backend/internal/models"
)

var testBranding = Branding{
	ChurchName:     "Grace Fellowship",
	PrimaryColor:   "#3B82F6",
	SecondaryColor: "#6B7280",
	FontPreference: "serif",
}

func notesDocument(t *testing.T) *Document {
	t.Helper()

	payload := models.SermonNotesPayload{
		Title:      "Walking on Water",
		BigIdea:    "Faith grows when we step out of the boat.",
		Scriptures: []string{"Matthew 14:22-33"},
		Points: []models.SermonNotesPoint{
			{Heading: "The Storm", Explanation: "Storms reveal what we trust.", Application: "Name your storm."},
			{Heading: "The Step", Explanation: "Peter stepped out at a word.", Scriptures: []string{"Matthew 14:29"}},
		},
		Conclusion: "Keep your eyes on Christ.",
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	doc, err := Flatten(models.ContentTypeSermonNotes, raw)
	require.NoError(t, err)
	return doc
}

func TestFlattenSermonNotes(t *testing.T) {
	doc := notesDocument(t)

	assert.Equal(t, "Walking on Water", doc.Title)
	assert.Equal(t, "Matthew 14:22-33", doc.Subtitle)
	// Big idea + 2 points + conclusion
	require.Len(t, doc.Sections, 4)
	assert.Equal(t, "1. The Storm", doc.Sections[1].Heading)
	assert.Contains(t, doc.Sections[1].Paragraphs, "Application: Name your storm.")
	assert.Equal(t, []string{"Matthew 14:29"}, doc.Sections[2].Bullets)
}

func TestFlattenDevotional(t *testing.T) {
	payload := models.DevotionalPayload{
		Title: "5 Days of Faith",
		Days: []models.DevotionalDay{
			{Day: 1, Title: "Step Out", Scripture: "Matthew 14:29", Body: "body", Reflection: "r", Prayer: "p"},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	doc, err := Flatten(models.ContentTypeDevotional, raw)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Day 1: Step Out", doc.Sections[0].Heading)
}

func TestFlattenRejectsUnknownType(t *testing.T) {
	_, err := Flatten(models.ContentType("poem"), []byte(`{}`))
	assert.Error(t, err)
}

func TestRenderPDFProducesValidHeader(t *testing.T) {
	data, err := RenderPDF(notesDocument(t), testBranding)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 1000)
}

func TestRenderDOCXIsValidPackage(t *testing.T) {
	data, err := RenderDOCX(notesDocument(t), testBranding)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/document.xml"])

	var docXML bytes.Buffer
	rc, err := zr.Open("word/document.xml")
	require.NoError(t, err)
	_, err = docXML.ReadFrom(rc)
	require.NoError(t, err)
	rc.Close()

	assert.Contains(t, docXML.String(), "Walking on Water")
	assert.Contains(t, docXML.String(), "Grace Fellowship")
	// Primary color applied without the # prefix
	assert.Contains(t, docXML.String(), `w:val="3B82F6"`)
}

func TestRenderPPTXIsValidPackage(t *testing.T) {
	doc := notesDocument(t)
	data, err := RenderPPTX(doc, testBranding)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["ppt/presentation.xml"])
	assert.True(t, names["ppt/slideMasters/slideMaster1.xml"])
	assert.True(t, names["ppt/slideLayouts/slideLayout1.xml"])
	assert.True(t, names["ppt/theme/theme1.xml"])

	// Title slide plus one slide per section, each with its own rels part.
	for i := 1; i <= len(doc.Sections)+1; i++ {
		assert.True(t, names[fmt.Sprintf("ppt/slides/slide%d.xml", i)], "slide %d", i)
		assert.True(t, names[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i)], "slide %d rels", i)
	}
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt;", escapeXML("a & b <c>"))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Walking on Water":          "Walking_on_Water",
		"  Grace & Truth!  ":        "Grace_Truth",
		"Sunday (AM) – Part 2":      "Sunday_AM_Part_2",
		"///":                       "sermon",
		"":                          "sermon",
		"Faith":                     "Faith",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input: %q", in)
	}
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#3B82F6", 0, 0, 0)
	assert.Equal(t, []int{59, 130, 246}, []int{r, g, b})

	// Bad input falls back to the defaults
	r, g, b = hexToRGB("blue", 1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{r, g, b})
}
