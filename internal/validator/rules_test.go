package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type rulesFixture struct {
	Primary string `validate:"omitempty,is-hex-color"`
	Font    string `validate:"omitempty,is-font-preference"`
	Input   string `validate:"omitempty,is-input-type"`
	Content string `validate:"omitempty,is-content-type"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	registerRules(v)
	return v
}

func TestHexColorRule(t *testing.T) {
	v := newTestValidator()

	valid := []string{"#000000", "#AABB11", "#ffffff", "#1F2937"}
	for _, c := range valid {
		assert.NoError(t, v.Struct(rulesFixture{Primary: c}), "color: %s", c)
	}

	// Three-digit shorthand is rejected along with malformed input.
	invalid := []string{"#FFF", "FFFFFF", "#GGGGGG", "#12345", "#1234567", "red"}
	for _, c := range invalid {
		assert.Error(t, v.Struct(rulesFixture{Primary: c}), "color: %s", c)
	}
}

func TestFontPreferenceRule(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Struct(rulesFixture{Font: "serif"}))
	assert.NoError(t, v.Struct(rulesFixture{Font: "sans-serif"}))
	assert.Error(t, v.Struct(rulesFixture{Font: "comic-sans"}))
	assert.Error(t, v.Struct(rulesFixture{Font: "Serif"}))
}

func TestInputTypeRule(t *testing.T) {
	v := newTestValidator()

	for _, it := range []string{"audio", "video", "pdf", "youtube", "text_paste"} {
		assert.NoError(t, v.Struct(rulesFixture{Input: it}), "input type: %s", it)
	}
	assert.Error(t, v.Struct(rulesFixture{Input: "cassette"}))
}

func TestContentTypeRule(t *testing.T) {
	v := newTestValidator()

	for _, ct := range []string{"sermon_notes", "devotional", "discussion_guide", "social_media", "kids_version"} {
		assert.NoError(t, v.Struct(rulesFixture{Content: ct}), "content type: %s", ct)
	}
	assert.Error(t, v.Struct(rulesFixture{Content: "newsletter"}))
}
