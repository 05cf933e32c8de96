package export

// Branding carries the per-church styling applied to exported documents.
type Branding struct {
	ChurchName     string
	PrimaryColor   string // #RRGGBB
	SecondaryColor string // #RRGGBB
	FontPreference string // serif or sans-serif
	Logo           []byte // raw image bytes, nil when no logo uploaded
}

// Document is the renderer-independent shape every exporter consumes.
// The normalizer flattens each content payload into this.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// Section is one titled block of a document.
type Section struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
}
