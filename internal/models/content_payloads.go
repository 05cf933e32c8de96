package models

// Structured payloads stored in GeneratedContent.Content. The AI layer asks
// the model for JSON matching these shapes; exporters consume them.

type SermonNotesPayload struct {
	Title      string             `json:"title"`
	BigIdea    string             `json:"big_idea"`
	Scriptures []string           `json:"scriptures"`
	Points     []SermonNotesPoint `json:"points"`
	Conclusion string             `json:"conclusion"`
}

type SermonNotesPoint struct {
	Heading     string   `json:"heading"`
	Explanation string   `json:"explanation"`
	Application string   `json:"application"`
	Scriptures  []string `json:"scriptures,omitempty"`
}

type DevotionalPayload struct {
	Title string           `json:"title"`
	Days  []DevotionalDay  `json:"days"`
}

type DevotionalDay struct {
	Day        int    `json:"day"`
	Title      string `json:"title"`
	Scripture  string `json:"scripture"`
	Body       string `json:"body"`
	Reflection string `json:"reflection"`
	Prayer     string `json:"prayer"`
}

type DiscussionGuidePayload struct {
	Title      string                    `json:"title"`
	Icebreaker string                    `json:"icebreaker"`
	Sections   []DiscussionGuideSection  `json:"sections"`
	Closing    string                    `json:"closing"`
}

type DiscussionGuideSection struct {
	Heading   string   `json:"heading"`
	Scripture string   `json:"scripture,omitempty"`
	Questions []string `json:"questions"`
}

type SocialMediaPayload struct {
	Posts []SocialMediaPost `json:"posts"`
}

type SocialMediaPost struct {
	Platform string   `json:"platform"`
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags,omitempty"`
}

type KidsVersionPayload struct {
	Title      string   `json:"title"`
	BigIdea    string   `json:"big_idea"`
	Story      string   `json:"story"`
	MemoryVerse string  `json:"memory_verse"`
	Activities []string `json:"activities"`
	Questions  []string `json:"questions"`
}
