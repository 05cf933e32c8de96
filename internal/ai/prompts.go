package ai

import (
	"fmt"
	"strings"

	"sermonforge_backend/internal/models"
)

const systemPrompt = `You are an experienced ministry assistant who turns sermon transcripts into
polished supporting content for churches. You write warm, biblically faithful,
practical material. Always respond with a single JSON object matching the
requested schema exactly. Do not include any text outside the JSON object.`

// transcriptCap bounds prompt size. Transcripts beyond this are truncated at
// a word boundary; an hour of preaching fits comfortably under the cap.
const transcriptCap = 48000

var typeInstructions = map[models.ContentType]string{
	models.ContentTypeSermonNotes: `Produce structured sermon notes as JSON:
{"title": string, "big_idea": string, "scriptures": [string],
 "points": [{"heading": string, "explanation": string, "application": string, "scriptures": [string]}],
 "conclusion": string}
Use 3 to 5 main points. Each explanation should be 2 to 4 sentences.`,

	models.ContentTypeDevotional: `Produce a 5-day devotional series as JSON:
{"title": string, "days": [{"day": number, "title": string, "scripture": string,
 "body": string, "reflection": string, "prayer": string}]}
Each day's body should be 150 to 250 words and build on the sermon's themes.`,

	models.ContentTypeDiscussionGuide: `Produce a small-group discussion guide as JSON:
{"title": string, "icebreaker": string,
 "sections": [{"heading": string, "scripture": string, "questions": [string]}],
 "closing": string}
Use 3 sections with 3 to 4 open-ended questions each.`,

	models.ContentTypeSocialMedia: `Produce social media posts as JSON:
{"posts": [{"platform": string, "text": string, "hashtags": [string]}]}
Write 6 posts total: 2 for Instagram, 2 for Facebook, 2 for X. Keep X posts
under 280 characters. Pull memorable quotes from the sermon where possible.`,

	models.ContentTypeKidsVersion: `Produce a kids' ministry version as JSON:
{"title": string, "big_idea": string, "story": string, "memory_verse": string,
 "activities": [string], "questions": [string]}
Write for ages 6 to 10. The story should retell the sermon's message in 200 to
300 words with simple language. Include 3 activities and 4 questions.`,
}

// buildUserPrompt assembles the per-request prompt for one content type.
func buildUserPrompt(info SermonInfo, contentType models.ContentType) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sermon title: %s\n", info.Title)
	if info.Speaker != "" {
		fmt.Fprintf(&b, "Speaker: %s\n", info.Speaker)
	}
	if info.ScriptureRefs != "" {
		fmt.Fprintf(&b, "Primary scripture: %s\n", info.ScriptureRefs)
	}

	b.WriteString("\n")
	b.WriteString(typeInstructions[contentType])
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(truncateAtWord(info.Transcript, transcriptCap))

	return b.String()
}

func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
