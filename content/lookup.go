package content

import (
	"net/url"
	"strings"
)

// PortfolioBySlug resolves one portfolio item. Matching order: exact,
// case-insensitive, then percent-decoded variants of both the requested
// slug and the stored slugs. No match is ErrNotFound, not a failure.
func (r *Resolver) PortfolioBySlug(slug string) (PortfolioItem, error) {
	items, err := r.Portfolio()
	if err != nil {
		return PortfolioItem{}, err
	}
	for _, it := range items {
		if it.Slug == slug {
			return it, nil
		}
	}
	for _, it := range items {
		if strings.EqualFold(it.Slug, slug) {
			return it, nil
		}
	}
	decoded := decodeSlug(slug)
	for _, it := range items {
		candidate := decodeSlug(it.Slug)
		if it.Slug == decoded || candidate == slug || strings.EqualFold(candidate, decoded) {
			return it, nil
		}
	}
	return PortfolioItem{}, ErrNotFound
}

// ArticleByDOI resolves one publication by DOI, exact match first and
// case-insensitive as a fallback. The caller is expected to have
// percent-decoded the DOI (DOIs contain slashes).
func (r *Resolver) ArticleByDOI(doi string) (Article, error) {
	data, err := r.Research()
	if err != nil {
		return Article{}, err
	}
	for _, a := range data.Articles {
		if a.DOI == doi {
			return a, nil
		}
	}
	for _, a := range data.Articles {
		if a.DOI != "" && strings.EqualFold(a.DOI, doi) {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

// ArticleByID resolves one publication by its stored or derived article_id.
func (r *Resolver) ArticleByID(id string) (Article, error) {
	data, err := r.Research()
	if err != nil {
		return Article{}, err
	}
	for _, a := range data.Articles {
		if a.ArticleID == id {
			return a, nil
		}
	}
	for _, a := range data.Articles {
		if strings.EqualFold(a.ArticleID, id) {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func decodeSlug(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
