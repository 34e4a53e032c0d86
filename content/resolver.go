// Package content normalizes hand-authored JSON content files into the
// canonical view models served by the HTTP layer.
//
// The raw files are permissive: wrapper keys can be absent, descriptions can
// be a string or a list of bullets, authors can be a string or a list, and
// numeric totals may or may not be precomputed. All of that is resolved
// here, once, so nothing downstream ever touches a loosely-typed shape.
//
// Failure semantics: a missing or unreadable file is an error (it means the
// deployment is broken), while malformed JSON or an unexpected shape is
// logged and degrades to an empty or default result.
package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup by slug, DOI, or article ID matches
// nothing. It is a normal outcome, distinct from read failures.
var ErrNotFound = errors.New("content: not found")

// Resolver reads content files from a directory and memoizes the normalized
// results until Invalidate is called.
type Resolver struct {
	dir string
	log *zap.Logger

	mu   sync.RWMutex
	memo map[string]any
}

// NewResolver creates a Resolver over the given content directory.
func NewResolver(dir string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		dir:  dir,
		log:  log,
		memo: make(map[string]any),
	}
}

// Invalidate drops all memoized results so the next read hits the files.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.memo = make(map[string]any)
	r.mu.Unlock()
}

func (r *Resolver) cached(key string) (any, bool) {
	r.mu.RLock()
	v, ok := r.memo[key]
	r.mu.RUnlock()
	return v, ok
}

func (r *Resolver) memoize(key string, v any) {
	r.mu.Lock()
	r.memo[key] = v
	r.mu.Unlock()
}

// readFile reads one content file. A missing file surfaces as an error; an
// empty gjson.Result with ok=false signals malformed JSON, already logged.
func (r *Resolver) readFile(name string) (gjson.Result, bool, error) {
	path := filepath.Join(r.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, false, errors.Wrapf(err, "reading %s", name)
	}
	if !gjson.ValidBytes(raw) {
		r.log.Error("content file is not valid JSON", zap.String("file", name))
		return gjson.Result{}, false, nil
	}
	return gjson.ParseBytes(raw), true, nil
}

// Profile returns the owner profile with every optional field defaulted.
func (r *Resolver) Profile() (Profile, error) {
	if v, ok := r.cached("profile"); ok {
		return v.(Profile), nil
	}
	doc, ok, err := r.readFile("profile.json")
	if err != nil {
		return Profile{}, err
	}
	p := Profile{
		Name:     "Portfolio Owner",
		Title:    "Professional",
		Email:    "contact@example.com",
		Bio:      "Welcome to my portfolio.",
		ShortBio: "Portfolio owner.",
		Image:    "/placeholder-profile.jpg",
		Skills:   []SkillCategory{},
	}
	if ok {
		p.Name = stringOr(doc.Get("name"), p.Name)
		p.Credentials = doc.Get("credentials").String()
		p.Title = stringOr(doc.Get("title"), p.Title)
		p.Email = stringOr(doc.Get("email"), p.Email)
		p.Bio = stringOr(doc.Get("bio"), p.Bio)
		p.ShortBio = stringOr(doc.Get("shortBio"), p.ShortBio)
		p.Image = stringOr(doc.Get("image"), p.Image)
		p.Social = Social{
			X:             doc.Get("social.X").String(),
			GitHub:        doc.Get("social.GitHub").String(),
			LinkedIn:      doc.Get("social.LinkedIn").String(),
			GoogleScholar: doc.Get("social.GoogleScholar").String(),
			ResearchGate:  doc.Get("social.ResearchGate").String(),
			ORCID:         doc.Get("social.ORCID").String(),
		}
		if skills := doc.Get("skills"); skills.IsArray() {
			for _, s := range skills.Array() {
				p.Skills = append(p.Skills, SkillCategory{
					Category: s.Get("category").String(),
					Items:    stringList(s.Get("items")),
				})
			}
		}
	}
	r.memoize("profile", p)
	return p, nil
}

// Education returns the degrees list. An absent or malformed "degrees"
// wrapper degrades to an empty list.
func (r *Resolver) Education() ([]EducationItem, error) {
	if v, ok := r.cached("education"); ok {
		return v.([]EducationItem), nil
	}
	doc, ok, err := r.readFile("education.json")
	if err != nil {
		return nil, err
	}
	items := []EducationItem{}
	if ok {
		degrees := doc.Get("degrees")
		if !degrees.IsArray() {
			r.log.Error("education file is missing the degrees array")
		}
		for _, d := range degrees.Array() {
			items = append(items, EducationItem{
				Degree:      d.Get("degree").String(),
				Institution: d.Get("institution").String(),
				Years:       d.Get("years").String(),
				Description: descriptionLines(d.Get("description")),
				LogoURL:     d.Get("logo").String(),
			})
		}
	}
	r.memoize("education", items)
	return items, nil
}

// Experience returns the positions list.
func (r *Resolver) Experience() ([]ExperienceItem, error) {
	if v, ok := r.cached("experience"); ok {
		return v.([]ExperienceItem), nil
	}
	doc, ok, err := r.readFile("experience.json")
	if err != nil {
		return nil, err
	}
	items := []ExperienceItem{}
	if ok {
		positions := doc.Get("positions")
		if !positions.IsArray() {
			r.log.Error("experience file is missing the positions array")
		}
		for _, p := range positions.Array() {
			items = append(items, ExperienceItem{
				Role:         p.Get("title").String(),
				Organization: p.Get("organization").String(),
				Years:        p.Get("years").String(),
				Description:  descriptionLines(p.Get("description")),
				LogoURL:      p.Get("logo").String(),
			})
		}
	}
	r.memoize("experience", items)
	return items, nil
}

// Achievements merges the awards and honors collections, tags each item
// with its source category, and sorts by parsed year descending. The sort
// is stable, so items sharing a year keep awards-before-honors order.
func (r *Resolver) Achievements() ([]AchievementItem, error) {
	if v, ok := r.cached("achievements"); ok {
		return v.([]AchievementItem), nil
	}
	doc, ok, err := r.readFile("achievements.json")
	if err != nil {
		return nil, err
	}
	items := []AchievementItem{}
	if ok {
		for _, a := range doc.Get("awards").Array() {
			items = append(items, achievement(a, "Award"))
		}
		for _, h := range doc.Get("honors").Array() {
			items = append(items, achievement(h, "Honor"))
		}
		sort.SliceStable(items, func(i, j int) bool {
			return parseYear(items[i].Year) > parseYear(items[j].Year)
		})
	}
	r.memoize("achievements", items)
	return items, nil
}

func achievement(res gjson.Result, category string) AchievementItem {
	return AchievementItem{
		Title:        res.Get("title").String(),
		Organization: res.Get("organization").String(),
		Year:         res.Get("year").String(),
		Description:  descriptionLines(res.Get("description")),
		Category:     category,
	}
}

// Research returns the research dataset. Totals prefer the precomputed
// *_processed fields, then the plain totals, then a live derivation over
// the article list. Articles without a stored article_id get one derived
// from title and year.
func (r *Resolver) Research() (Research, error) {
	if v, ok := r.cached("research"); ok {
		return v.(Research), nil
	}
	doc, ok, err := r.readFile("research.json")
	if err != nil {
		return Research{}, err
	}
	data := Research{
		Author:   "Researcher",
		Articles: []Article{},
	}
	if ok {
		data.Author = stringOr(doc.Get("author"), data.Author)
		data.Metrics = ResearchMetrics{
			Citations: int(doc.Get("metrics.citations").Int()),
			HIndex:    int(doc.Get("metrics.h_index").Int()),
			I10Index:  int(doc.Get("metrics.i10_index").Int()),
		}
		citationSum := 0
		for _, raw := range doc.Get("articles").Array() {
			a := Article{
				ArticleID:    raw.Get("article_id").String(),
				Title:        raw.Get("title").String(),
				Authors:      authorList(raw.Get("authors")),
				Year:         int(raw.Get("year").Int()),
				Journal:      raw.Get("journal").String(),
				Volume:       raw.Get("volume").String(),
				Number:       raw.Get("number").String(),
				Pages:        raw.Get("pages").String(),
				Abstract:     raw.Get("abstract").String(),
				NumCitations: int(raw.Get("num_citations").Int()),
				DOI:          raw.Get("doi").String(),
				URL:          raw.Get("url").String(),
				Bibtex:       raw.Get("bibtex").String(),
			}
			if a.ArticleID == "" {
				a.ArticleID = ArticleID(a.Title, a.Year)
			}
			citationSum += a.NumCitations
			data.Articles = append(data.Articles, a)
		}
		data.TotalArticles = firstPositive(
			int(doc.Get("total_articles_processed").Int()),
			int(doc.Get("total_articles").Int()),
			len(data.Articles),
		)
		data.TotalCitations = firstPositive(
			int(doc.Get("total_citations_processed").Int()),
			int(doc.Get("total_citations").Int()),
			citationSum,
		)
	}
	r.memoize("research", data)
	return data, nil
}

// Portfolio reads every *.json file under the portfolio subdirectory and
// returns the items sorted by year descending. A file that fails to parse
// is logged and skipped; a missing directory is an error.
func (r *Resolver) Portfolio() ([]PortfolioItem, error) {
	if v, ok := r.cached("portfolio"); ok {
		return v.([]PortfolioItem), nil
	}
	dir := filepath.Join(r.dir, "portfolio")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading portfolio directory")
	}
	items := []PortfolioItem{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "reading portfolio file %s", e.Name())
		}
		if !gjson.ValidBytes(raw) {
			r.log.Error("portfolio file is not valid JSON", zap.String("file", e.Name()))
			continue
		}
		doc := gjson.ParseBytes(raw)
		items = append(items, PortfolioItem{
			Title:          doc.Get("title").String(),
			Slug:           doc.Get("slug").String(),
			Description:    doc.Get("description").String(),
			Abstract:       doc.Get("abstract").String(),
			Year:           int(doc.Get("year").Int()),
			Technologies:   stringList(doc.Get("technologies")),
			ProjectTags:    stringList(doc.Get("projectTags")),
			ImageURL:       doc.Get("imageUrl").String(),
			VideoURL:       doc.Get("videoUrl").String(),
			GithubURL:      doc.Get("githubUrl").String(),
			LiveURL:        doc.Get("liveUrl").String(),
			PublicationURL: doc.Get("publicationUrl").String(),
			BlogPostURL:    doc.Get("blogPostUrl").String(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Year > items[j].Year })
	r.memoize("portfolio", items)
	return items, nil
}

// Acknowledgments returns the mentors list.
func (r *Resolver) Acknowledgments() ([]AcknowledgmentItem, error) {
	if v, ok := r.cached("acknowledgments"); ok {
		return v.([]AcknowledgmentItem), nil
	}
	doc, ok, err := r.readFile("acknowledgments.json")
	if err != nil {
		return nil, err
	}
	items := []AcknowledgmentItem{}
	if ok {
		mentors := doc.Get("mentors")
		if !mentors.IsArray() {
			r.log.Error("acknowledgments file is missing the mentors array")
		}
		for _, m := range mentors.Array() {
			items = append(items, AcknowledgmentItem{
				Name:        m.Get("name").String(),
				Credentials: m.Get("credentials").String(),
				Years:       m.Get("years").String(),
				Title:       m.Get("title").String(),
				Affiliation: m.Get("affiliation").String(),
				ImageURL:    m.Get("imageUrl").String(),
			})
		}
	}
	r.memoize("acknowledgments", items)
	return items, nil
}

// stringOr returns the result's string value, or fallback when absent/empty.
func stringOr(res gjson.Result, fallback string) string {
	if s := res.String(); s != "" {
		return s
	}
	return fallback
}

func stringList(res gjson.Result) []string {
	out := []string{}
	for _, v := range res.Array() {
		out = append(out, v.String())
	}
	return out
}

// descriptionLines accepts either a plain string or a list of bullet
// strings and normalizes both to a list.
func descriptionLines(res gjson.Result) []string {
	if res.IsArray() {
		return stringList(res)
	}
	if s := res.String(); s != "" {
		return []string{s}
	}
	return []string{}
}

// authorList accepts either a single author string or a list of authors.
func authorList(res gjson.Result) []string {
	if res.IsArray() {
		return stringList(res)
	}
	if s := res.String(); s != "" {
		return []string{s}
	}
	return []string{}
}

// parseYear extracts the leading integer from a year or year-range string
// like "2023" or "2021-2023". Unparseable years sort last.
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1
	}
	year := 0
	for _, c := range s[:end] {
		year = year*10 + int(c-'0')
	}
	return year
}

// firstPositive returns the first value greater than zero, mirroring the
// truthiness chain the content files were authored against.
func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
