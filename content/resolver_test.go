package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeContent creates a content directory with the given files.
func writeContent(t *testing.T, files map[string]string) *Resolver {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return NewResolver(dir, nil)
}

func TestProfileDefaultsWhenFieldsMissing(t *testing.T) {
	r := writeContent(t, map[string]string{
		"profile.json": `{"email": "me@example.org"}`,
	})
	p, err := r.Profile()
	require.NoError(t, err)

	assert.Equal(t, "Portfolio Owner", p.Name)
	assert.Equal(t, "Professional", p.Title)
	assert.Equal(t, "me@example.org", p.Email)
	assert.Equal(t, "/placeholder-profile.jpg", p.Image)
	assert.NotNil(t, p.Skills)
	assert.Empty(t, p.Skills)
}

func TestProfileMissingSkillsKeyYieldsEmptySlice(t *testing.T) {
	r := writeContent(t, map[string]string{
		"profile.json": `{"name": "Ada", "title": "Engineer"}`,
	})
	p, err := r.Profile()
	require.NoError(t, err)

	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, []SkillCategory{}, p.Skills)
}

func TestProfileSocialAndSkills(t *testing.T) {
	r := writeContent(t, map[string]string{
		"profile.json": `{
			"name": "Ada",
			"social": {"GitHub": "https://github.com/ada", "ORCID": "0000-0001"},
			"skills": [{"category": "Languages", "items": ["Go", "Python"]}]
		}`,
	})
	p, err := r.Profile()
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/ada", p.Social.GitHub)
	assert.Equal(t, "0000-0001", p.Social.ORCID)
	assert.Empty(t, p.Social.X)
	require.Len(t, p.Skills, 1)
	assert.Equal(t, "Languages", p.Skills[0].Category)
	assert.Equal(t, []string{"Go", "Python"}, p.Skills[0].Items)
}

func TestProfileMissingFileIsAnError(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	_, err := r.Profile()
	assert.Error(t, err)
}

func TestProfileMalformedJSONDegradesToDefaults(t *testing.T) {
	r := writeContent(t, map[string]string{
		"profile.json": `{"name": "Ada",`,
	})
	p, err := r.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Portfolio Owner", p.Name)
}

func TestEducationMissingWrapperDegradesToEmpty(t *testing.T) {
	r := writeContent(t, map[string]string{
		"education.json": `{"certifications": []}`,
	})
	items, err := r.Education()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestEducationDescriptionStringOrList(t *testing.T) {
	r := writeContent(t, map[string]string{
		"education.json": `{"degrees": [
			{"degree": "PhD", "institution": "MIT", "years": "2015-2020", "description": "Thesis on widgets"},
			{"degree": "BSc", "institution": "UofT", "years": "2011-2015", "description": ["First bullet", "Second bullet"], "logo": "/logos/uoft.png"}
		]}`,
	})
	items, err := r.Education()
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, []string{"Thesis on widgets"}, items[0].Description)
	assert.Equal(t, []string{"First bullet", "Second bullet"}, items[1].Description)
	assert.Equal(t, "/logos/uoft.png", items[1].LogoURL)
}

func TestExperienceMapsTitleToRole(t *testing.T) {
	r := writeContent(t, map[string]string{
		"experience.json": `{"positions": [
			{"title": "Staff Engineer", "organization": "Acme", "years": "2020-present", "description": "Things"}
		]}`,
	})
	items, err := r.Experience()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Staff Engineer", items[0].Role)
	assert.Equal(t, "Acme", items[0].Organization)
}

func TestAchievementsMergeAndStableSort(t *testing.T) {
	r := writeContent(t, map[string]string{
		"achievements.json": `{
			"awards": [
				{"title": "Old Award", "organization": "A", "year": "2019", "description": "d"},
				{"title": "Award 2021", "organization": "A", "year": "2021", "description": "d"}
			],
			"honors": [
				{"title": "Honor 2021", "organization": "H", "year": "2021", "description": "d"},
				{"title": "New Honor", "organization": "H", "year": "2023", "description": "d"}
			]
		}`,
	})
	items, err := r.Achievements()
	require.NoError(t, err)
	require.Len(t, items, 4)

	// Year descending; the 2021 award precedes the 2021 honor because
	// awards are concatenated first and the sort is stable.
	assert.Equal(t, "New Honor", items[0].Title)
	assert.Equal(t, "Award 2021", items[1].Title)
	assert.Equal(t, "Honor 2021", items[2].Title)
	assert.Equal(t, "Old Award", items[3].Title)

	assert.Equal(t, "Honor", items[0].Category)
	assert.Equal(t, "Award", items[1].Category)
}

func TestResearchPrefersProcessedTotals(t *testing.T) {
	r := writeContent(t, map[string]string{
		"research.json": `{
			"author": "Ada",
			"total_articles_processed": 42,
			"articles": [
				{"title": "A", "year": 2020, "num_citations": 3},
				{"title": "B", "year": 2021, "num_citations": 4}
			]
		}`,
	})
	data, err := r.Research()
	require.NoError(t, err)

	assert.Equal(t, 42, data.TotalArticles)
	// No explicit citation totals: derived from the article list.
	assert.Equal(t, 7, data.TotalCitations)
}

func TestResearchDerivesTotalsFromArticles(t *testing.T) {
	r := writeContent(t, map[string]string{
		"research.json": `{"articles": [
			{"title": "A", "year": 2020, "num_citations": 5},
			{"title": "B", "year": 2021},
			{"title": "C", "year": 2022, "num_citations": 2}
		]}`,
	})
	data, err := r.Research()
	require.NoError(t, err)

	assert.Equal(t, "Researcher", data.Author)
	assert.Equal(t, 3, data.TotalArticles)
	assert.Equal(t, 7, data.TotalCitations)
}

func TestResearchBackfillsArticleIDs(t *testing.T) {
	r := writeContent(t, map[string]string{
		"research.json": `{"articles": [
			{"article_id": "stored-id", "title": "A", "year": 2020},
			{"title": "Deep Learning for Widgets", "year": 2021}
		]}`,
	})
	data, err := r.Research()
	require.NoError(t, err)
	require.Len(t, data.Articles, 2)

	assert.Equal(t, "stored-id", data.Articles[0].ArticleID)
	assert.Equal(t, ArticleID("Deep Learning for Widgets", 2021), data.Articles[1].ArticleID)
}

func TestResearchAuthorsStringOrList(t *testing.T) {
	r := writeContent(t, map[string]string{
		"research.json": `{"articles": [
			{"title": "A", "year": 2020, "authors": "Lovelace A"},
			{"title": "B", "year": 2021, "authors": ["Lovelace A", "Babbage C"]}
		]}`,
	})
	data, err := r.Research()
	require.NoError(t, err)

	assert.Equal(t, []string{"Lovelace A"}, data.Articles[0].Authors)
	assert.Equal(t, []string{"Lovelace A", "Babbage C"}, data.Articles[1].Authors)
}

func TestPortfolioReadsDirectorySortedByYear(t *testing.T) {
	r := writeContent(t, map[string]string{
		"portfolio/alpha.json": `{"title": "Alpha", "slug": "alpha", "year": 2020}`,
		"portfolio/beta.json":  `{"title": "Beta", "slug": "beta", "year": 2023}`,
		"portfolio/bad.json":   `not json at all`,
	})
	items, err := r.Portfolio()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Beta", items[0].Title)
	assert.Equal(t, "Alpha", items[1].Title)
}

func TestPortfolioMissingDirectoryIsAnError(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	_, err := r.Portfolio()
	assert.Error(t, err)
}

func TestAcknowledgments(t *testing.T) {
	r := writeContent(t, map[string]string{
		"acknowledgments.json": `{"mentors": [
			{"name": "Grace", "credentials": "PhD", "years": "2018-2020", "title": "Professor", "affiliation": "Navy"}
		]}`,
	})
	items, err := r.Acknowledgments()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Grace", items[0].Name)
	assert.Equal(t, "Navy", items[0].Affiliation)
}

func TestResolverMemoizesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Before"}`), 0o644))
	r := NewResolver(dir, nil)

	p, err := r.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Before", p.Name)

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "After"}`), 0o644))

	p, err = r.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Before", p.Name, "memoized result should be served")

	r.Invalidate()
	p, err = r.Profile()
	require.NoError(t, err)
	assert.Equal(t, "After", p.Name)
}
