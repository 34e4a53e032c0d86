package blog

import (
	"strconv"
	"strings"
)

// wordsPerMinute is the fixed reading speed used for estimates.
const wordsPerMinute = 200

// PostMetadata is the flattened listing shape mapped from the upstream CMS
// (Title, Slug, Date, Summary, Tags, FeaturedImage, Published properties).
type PostMetadata struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Date          string   `json:"date"`
	Summary       string   `json:"summary"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	Published     bool     `json:"published"`
}

// Post is a full post: metadata plus body and a reading-time estimate.
type Post struct {
	PostMetadata
	Content     string      `json:"content"`
	ReadingTime ReadingTime `json:"readingTime"`
}

// ReadingTime is a word-count based estimate at a fixed reading speed.
type ReadingTime struct {
	Text    string `json:"text"`
	Minutes int    `json:"minutes"`
	Time    int    `json:"time"` // milliseconds
	Words   int    `json:"words"`
}

// CalculateReadingTime estimates reading time for a body of text, rounding
// minutes up.
func CalculateReadingTime(text string) ReadingTime {
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return ReadingTime{
		Text:    pluralMinutes(minutes),
		Minutes: minutes,
		Time:    minutes * 60 * 1000,
		Words:   words,
	}
}

func pluralMinutes(minutes int) string {
	return strconv.Itoa(minutes) + " min read"
}
