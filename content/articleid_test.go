package content

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleIDIsDeterministic(t *testing.T) {
	first := ArticleID("Deep Learning for Radiology", 2023)
	second := ArticleID("Deep Learning for Radiology", 2023)
	assert.Equal(t, first, second)
}

func TestArticleIDFormat(t *testing.T) {
	id := ArticleID("Deep Learning: A Survey!", 2022)
	assert.True(t, strings.HasPrefix(id, "deep-learning-a-survey-"))

	// slug + "-" + 8 hex chars, URL-safe throughout
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9_-]+-[0-9a-f]{8}$`), id)
}

func TestArticleIDTruncatesLongTitles(t *testing.T) {
	id := ArticleID(strings.Repeat("very long title ", 10), 2020)
	// 40-char slug cap plus separator and 8-char hash suffix
	assert.LessOrEqual(t, len(id), 40+1+8)
}

func TestArticleIDDistinguishesInputs(t *testing.T) {
	assert.NotEqual(t,
		ArticleID("Title One", 2020),
		ArticleID("Title Two", 2020),
	)
	assert.NotEqual(t,
		ArticleID("Same Title", 2020),
		ArticleID("Same Title", 2021),
	)
}
