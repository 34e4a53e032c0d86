package folio

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/content"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealth)
	e.GET("/api/config", a.handleConfig)

	e.GET("/api/content/profile", a.handleProfile)
	e.GET("/api/content/education", a.handleEducation)
	e.GET("/api/content/experience", a.handleExperience)
	e.GET("/api/content/research", a.handleResearchContent)
	e.GET("/api/content/achievements", a.handleAchievements)
	e.GET("/api/content/acknowledgments", a.handleAcknowledgments)
	e.GET("/api/content/portfolio", a.handlePortfolio)
	e.GET("/api/content/portfolio/:slug", a.handlePortfolioItem)

	e.GET("/api/research", a.handleResearchContent)
	e.GET("/api/research/doi/:doi", a.handleArticleByDOI)
	e.GET("/api/research/article/:id", a.handleArticleByID)

	e.GET("/api/blog", a.handleBlogList)
	e.GET("/api/blog/slugs", a.handleBlogSlugs)
	e.GET("/api/blog/:slug", a.handleBlogPost)

	e.POST("/api/revalidate", a.handleRevalidate)
	e.POST("/api/contact", a.handleContact)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleConfig exposes the public subset of the site configuration.
func (a *App) handleConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":        a.Config.Name,
		"url":         a.Config.URL,
		"description": a.Config.Description,
		"author":      a.Config.Author,
	})
}

func (a *App) handleProfile(c echo.Context) error {
	profile, err := a.Content.Profile()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (a *App) handleEducation(c echo.Context) error {
	items, err := a.Content.Education()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handleExperience(c echo.Context) error {
	items, err := a.Content.Experience()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handleResearchContent(c echo.Context) error {
	data, err := a.Content.Research()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

func (a *App) handleAchievements(c echo.Context) error {
	items, err := a.Content.Achievements()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handleAcknowledgments(c echo.Context) error {
	items, err := a.Content.Acknowledgments()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handlePortfolio(c echo.Context) error {
	items, err := a.Content.Portfolio()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handlePortfolioItem(c echo.Context) error {
	slug := c.Param("slug")
	item, err := a.Content.PortfolioBySlug(slug)
	if errors.Is(err, content.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Portfolio item not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// handleArticleByDOI resolves a publication by DOI. DOIs contain slashes,
// so the route parameter arrives percent-encoded.
func (a *App) handleArticleByDOI(c echo.Context) error {
	doi := c.Param("doi")
	if decoded, err := url.PathUnescape(doi); err == nil {
		doi = decoded
	}
	article, err := a.Content.ArticleByDOI(doi)
	if errors.Is(err, content.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Publication not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (a *App) handleArticleByID(c echo.Context) error {
	article, err := a.Content.ArticleByID(c.Param("id"))
	if errors.Is(err, content.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Publication not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (a *App) handleBlogList(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Posts.AllPosts(c.Request().Context()))
}

func (a *App) handleBlogSlugs(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Posts.AllSlugs(c.Request().Context()))
}

func (a *App) handleBlogPost(c echo.Context) error {
	post, err := a.Posts.PostBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, blog.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleRevalidate is the shared-secret invalidation hook the CMS webhook
// calls after publishing. It flushes the post caches and the content memo.
func (a *App) handleRevalidate(c echo.Context) error {
	secret := c.QueryParam("secret")
	if a.Config.RevalidationSecret == "" || secret != a.Config.RevalidationSecret {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"message": "Invalid revalidation secret",
		})
	}
	path := c.QueryParam("path")
	if path == "" {
		path = "/blog"
	}
	a.Posts.Invalidate()
	a.Content.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{
		"revalidated": true,
		"message":     fmt.Sprintf("Path %s revalidated successfully", path),
	})
}

func (a *App) handleContact(c echo.Context) error {
	var sub contact.Submission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, contact.Result{
			Success: false,
			Message: "Invalid request body.",
		})
	}
	result := a.Pipeline.Submit(c.Request().Context(), sub, c.RealIP())
	return c.JSON(http.StatusOK, result)
}
