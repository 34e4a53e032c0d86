package content

// Profile is the normalized owner profile. Every field a renderer reads is
// guaranteed non-nil: missing optional values are replaced with the
// documented fallbacks at load time.
type Profile struct {
	Name        string          `json:"name"`
	Credentials string          `json:"credentials,omitempty"`
	Title       string          `json:"title"`
	Email       string          `json:"email"`
	Bio         string          `json:"bio"`
	ShortBio    string          `json:"shortBio"`
	Image       string          `json:"image"`
	Social      Social          `json:"social"`
	Skills      []SkillCategory `json:"skills"`
}

// Social holds the fixed set of platform links. Absent platforms are empty
// strings, never missing keys.
type Social struct {
	X             string `json:"X"`
	GitHub        string `json:"GitHub"`
	LinkedIn      string `json:"LinkedIn"`
	GoogleScholar string `json:"GoogleScholar"`
	ResearchGate  string `json:"ResearchGate"`
	ORCID         string `json:"ORCID"`
}

// SkillCategory groups skill items under a category label.
type SkillCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// EducationItem is one degree from the education file.
type EducationItem struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Years       string   `json:"years"`
	Description []string `json:"description"`
	LogoURL     string   `json:"logoUrl,omitempty"`
}

// ExperienceItem is one position from the experience file.
type ExperienceItem struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	Years        string   `json:"years"`
	Description  []string `json:"description"`
	LogoURL      string   `json:"logoUrl,omitempty"`
}

// AchievementItem is one award or honor. Category is assigned during
// normalization ("Award" or "Honor") and is not present in raw storage.
type AchievementItem struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Year         string   `json:"year"`
	Description  []string `json:"description"`
	Category     string   `json:"category"`
}

// AcknowledgmentItem is one mentor entry.
type AcknowledgmentItem struct {
	Name        string `json:"name"`
	Credentials string `json:"credentials"`
	Years       string `json:"years"`
	Title       string `json:"title"`
	Affiliation string `json:"affiliation"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Article is one research publication. ArticleID is stable: when missing
// from storage it is derived from title and year and the same pair always
// produces the same ID.
type Article struct {
	ArticleID    string   `json:"article_id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Year         int      `json:"year"`
	Journal      string   `json:"journal,omitempty"`
	Volume       string   `json:"volume,omitempty"`
	Number       string   `json:"number,omitempty"`
	Pages        string   `json:"pages,omitempty"`
	Abstract     string   `json:"abstract,omitempty"`
	NumCitations int      `json:"num_citations"`
	DOI          string   `json:"doi,omitempty"`
	URL          string   `json:"url,omitempty"`
	Bibtex       string   `json:"bibtex,omitempty"`
}

// ResearchMetrics are the aggregate scholar metrics.
type ResearchMetrics struct {
	Citations int `json:"citations"`
	HIndex    int `json:"h_index"`
	I10Index  int `json:"i10_index"`
}

// Research is the full research dataset with derived totals.
type Research struct {
	Author         string          `json:"author"`
	Metrics        ResearchMetrics `json:"metrics"`
	Articles       []Article       `json:"articles"`
	TotalArticles  int             `json:"total_articles"`
	TotalCitations int             `json:"total_citations"`
}

// PortfolioItem is one project, keyed by its slug.
type PortfolioItem struct {
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Abstract       string   `json:"abstract"`
	Year           int      `json:"year"`
	Technologies   []string `json:"technologies"`
	ProjectTags    []string `json:"projectTags"`
	ImageURL       string   `json:"imageUrl"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	GithubURL      string   `json:"githubUrl,omitempty"`
	LiveURL        string   `json:"liveUrl,omitempty"`
	PublicationURL string   `json:"publicationUrl,omitempty"`
	BlogPostURL    string   `json:"blogPostUrl,omitempty"`
}
