package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"sermonforge_backend/internal/models"
)

// Flatten converts a stored content payload into a renderable Document.
func Flatten(contentType models.ContentType, raw json.RawMessage) (*Document, error) {
	switch contentType {
	case models.ContentTypeSermonNotes:
		return flattenNotes(raw)
	case models.ContentTypeDevotional:
		return flattenDevotional(raw)
	case models.ContentTypeDiscussionGuide:
		return flattenDiscussionGuide(raw)
	case models.ContentTypeSocialMedia:
		return flattenSocialMedia(raw)
	case models.ContentTypeKidsVersion:
		return flattenKidsVersion(raw)
	default:
		return nil, fmt.Errorf("unknown content type: %s", contentType)
	}
}

func flattenNotes(raw json.RawMessage) (*Document, error) {
	var p models.SermonNotesPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode sermon notes: %w", err)
	}

	doc := &Document{Title: p.Title, Subtitle: strings.Join(p.Scriptures, ", ")}

	if p.BigIdea != "" {
		doc.Sections = append(doc.Sections, Section{
			Heading:    "Big Idea",
			Paragraphs: []string{p.BigIdea},
		})
	}

	for i, point := range p.Points {
		sec := Section{
			Heading:    fmt.Sprintf("%d. %s", i+1, point.Heading),
			Paragraphs: []string{point.Explanation},
		}
		if point.Application != "" {
			sec.Paragraphs = append(sec.Paragraphs, "Application: "+point.Application)
		}
		if len(point.Scriptures) > 0 {
			sec.Bullets = point.Scriptures
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if p.Conclusion != "" {
		doc.Sections = append(doc.Sections, Section{
			Heading:    "Conclusion",
			Paragraphs: []string{p.Conclusion},
		})
	}
	return doc, nil
}

func flattenDevotional(raw json.RawMessage) (*Document, error) {
	var p models.DevotionalPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode devotional: %w", err)
	}

	doc := &Document{Title: p.Title}
	for _, day := range p.Days {
		sec := Section{
			Heading:    fmt.Sprintf("Day %d: %s", day.Day, day.Title),
			Paragraphs: []string{},
		}
		if day.Scripture != "" {
			sec.Paragraphs = append(sec.Paragraphs, day.Scripture)
		}
		sec.Paragraphs = append(sec.Paragraphs, day.Body)
		if day.Reflection != "" {
			sec.Paragraphs = append(sec.Paragraphs, "Reflect: "+day.Reflection)
		}
		if day.Prayer != "" {
			sec.Paragraphs = append(sec.Paragraphs, "Prayer: "+day.Prayer)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

func flattenDiscussionGuide(raw json.RawMessage) (*Document, error) {
	var p models.DiscussionGuidePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode discussion guide: %w", err)
	}

	doc := &Document{Title: p.Title}

	if p.Icebreaker != "" {
		doc.Sections = append(doc.Sections, Section{
			Heading:    "Icebreaker",
			Paragraphs: []string{p.Icebreaker},
		})
	}

	for _, s := range p.Sections {
		sec := Section{Heading: s.Heading, Bullets: s.Questions}
		if s.Scripture != "" {
			sec.Paragraphs = []string{s.Scripture}
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if p.Closing != "" {
		doc.Sections = append(doc.Sections, Section{
			Heading:    "Closing",
			Paragraphs: []string{p.Closing},
		})
	}
	return doc, nil
}

func flattenSocialMedia(raw json.RawMessage) (*Document, error) {
	var p models.SocialMediaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode social media: %w", err)
	}

	doc := &Document{Title: "Social Media Posts"}
	for _, post := range p.Posts {
		sec := Section{
			Heading:    post.Platform,
			Paragraphs: []string{post.Text},
		}
		if len(post.Hashtags) > 0 {
			sec.Paragraphs = append(sec.Paragraphs, strings.Join(post.Hashtags, " "))
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

func flattenKidsVersion(raw json.RawMessage) (*Document, error) {
	var p models.KidsVersionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode kids version: %w", err)
	}

	doc := &Document{Title: p.Title, Subtitle: p.BigIdea}

	doc.Sections = append(doc.Sections, Section{
		Heading:    "The Story",
		Paragraphs: []string{p.Story},
	})
	if p.MemoryVerse != "" {
		doc.Sections = append(doc.Sections, Section{
			Heading:    "Memory Verse",
			Paragraphs: []string{p.MemoryVerse},
		})
	}
	if len(p.Activities) > 0 {
		doc.Sections = append(doc.Sections, Section{Heading: "Activities", Bullets: p.Activities})
	}
	if len(p.Questions) > 0 {
		doc.Sections = append(doc.Sections, Section{Heading: "Questions", Bullets: p.Questions})
	}
	return doc, nil
}
