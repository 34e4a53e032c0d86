// Package blog adapts a third-party CMS into a stable post listing and
// post detail interface, with an in-memory TTL cache in front of it.
package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// apiBase is the CMS API root. Declared as a var so tests can substitute
// an httptest server.
var apiBase = "https://api.notion.com/v1"

const apiVersion = "2022-06-28"

// Client queries the CMS database for posts. Only pages with the Published
// checkbox set are ever requested.
type Client struct {
	HTTP       *http.Client
	Token      string
	DatabaseID string
}

// NewClient creates a Client for the given database.
func NewClient(token, databaseID string) *Client {
	return &Client{
		HTTP:       http.DefaultClient,
		Token:      token,
		DatabaseID: databaseID,
	}
}

type queryRequest struct {
	Filter *filter    `json:"filter,omitempty"`
	Sorts  []sortSpec `json:"sorts,omitempty"`
}

type filter struct {
	And      []filter      `json:"and,omitempty"`
	Property string        `json:"property,omitempty"`
	Checkbox *checkboxCond `json:"checkbox,omitempty"`
	RichText *richTextCond `json:"rich_text,omitempty"`
}

type checkboxCond struct {
	Equals bool `json:"equals"`
}

type richTextCond struct {
	Equals string `json:"equals"`
}

type sortSpec struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type page struct {
	ID         string         `json:"id"`
	Properties pageProperties `json:"properties"`
}

type pageProperties struct {
	Title struct {
		Title []richText `json:"title"`
	} `json:"Title"`
	Slug struct {
		RichText []richText `json:"rich_text"`
	} `json:"Slug"`
	Date struct {
		Date *dateValue `json:"date"`
	} `json:"Date"`
	Summary struct {
		RichText []richText `json:"rich_text"`
	} `json:"Summary"`
	Tags struct {
		MultiSelect []selectOption `json:"multi_select"`
	} `json:"Tags"`
	FeaturedImage struct {
		URL string `json:"url"`
	} `json:"FeaturedImage"`
	Published struct {
		Checkbox bool `json:"checkbox"`
	} `json:"Published"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type dateValue struct {
	Start string `json:"start"`
}

type selectOption struct {
	Name string `json:"name"`
}

var publishedFilter = filter{Property: "Published", Checkbox: &checkboxCond{Equals: true}}

var dateDescending = []sortSpec{{Property: "Date", Direction: "descending"}}

// QueryPosts returns metadata for every published post, newest first.
func (c *Client) QueryPosts(ctx context.Context) ([]PostMetadata, error) {
	resp, err := c.query(ctx, queryRequest{
		Filter: &publishedFilter,
		Sorts:  dateDescending,
	})
	if err != nil {
		return nil, err
	}
	posts := make([]PostMetadata, 0, len(resp.Results))
	for _, p := range resp.Results {
		posts = append(posts, mapPage(p))
	}
	return posts, nil
}

// QueryPostBySlug returns the published post with the given slug, querying
// upstream directly by slug rather than scanning the full list.
func (c *Client) QueryPostBySlug(ctx context.Context, slug string) (PostMetadata, bool, error) {
	resp, err := c.query(ctx, queryRequest{
		Filter: &filter{And: []filter{
			{Property: "Slug", RichText: &richTextCond{Equals: slug}},
			publishedFilter,
		}},
	})
	if err != nil {
		return PostMetadata{}, false, err
	}
	if len(resp.Results) == 0 {
		return PostMetadata{}, false, nil
	}
	return mapPage(resp.Results[0]), true, nil
}

// QuerySlugs returns the slugs of all published posts, for pre-generating
// static routes.
func (c *Client) QuerySlugs(ctx context.Context) ([]string, error) {
	posts, err := c.QueryPosts(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

func (c *Client) query(ctx context.Context, q queryRequest) (*queryResponse, error) {
	if c.DatabaseID == "" {
		return nil, errors.New("blog: database ID is not configured")
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("%s/databases/%s/query", apiBase, url.PathEscape(c.DatabaseID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating query request")
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "CMS query request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CMS query returned HTTP %d", resp.StatusCode)
	}
	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, errors.Wrap(err, "parsing CMS query response")
	}
	return &qr, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Notion-Version", apiVersion)
}

// Block response shapes for page bodies.

type blocksResponse struct {
	Results    []block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

type block struct {
	Type      string     `json:"type"`
	Paragraph *blockText `json:"paragraph"`
	Heading1  *blockText `json:"heading_1"`
	Heading2  *blockText `json:"heading_2"`
	Heading3  *blockText `json:"heading_3"`
	Bulleted  *blockText `json:"bulleted_list_item"`
	Numbered  *blockText `json:"numbered_list_item"`
	Quote     *blockText `json:"quote"`
	Code      *blockText `json:"code"`
}

type blockText struct {
	RichText []richText `json:"rich_text"`
}

// FetchBody fetches the page's block children and renders them as markdown
// text. Pagination is followed until the CMS reports no more blocks.
func (c *Client) FetchBody(ctx context.Context, pageID string) (string, error) {
	var b strings.Builder
	cursor := ""
	for {
		blocks, err := c.fetchBlocks(ctx, pageID, cursor)
		if err != nil {
			return "", err
		}
		for _, bl := range blocks.Results {
			renderBlock(&b, bl)
		}
		if !blocks.HasMore || blocks.NextCursor == "" {
			break
		}
		cursor = blocks.NextCursor
	}
	return b.String(), nil
}

func (c *Client) fetchBlocks(ctx context.Context, pageID, cursor string) (*blocksResponse, error) {
	params := url.Values{"page_size": {"100"}}
	if cursor != "" {
		params.Set("start_cursor", cursor)
	}
	reqURL := fmt.Sprintf("%s/blocks/%s/children?%s", apiBase, url.PathEscape(pageID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating blocks request")
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "CMS blocks request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("CMS blocks returned HTTP %d", resp.StatusCode)
	}
	var br blocksResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, errors.Wrap(err, "parsing CMS blocks response")
	}
	return &br, nil
}

func renderBlock(b *strings.Builder, bl block) {
	switch bl.Type {
	case "paragraph":
		b.WriteString(plainText(bl.Paragraph) + "\n\n")
	case "heading_1":
		b.WriteString("# " + plainText(bl.Heading1) + "\n\n")
	case "heading_2":
		b.WriteString("## " + plainText(bl.Heading2) + "\n\n")
	case "heading_3":
		b.WriteString("### " + plainText(bl.Heading3) + "\n\n")
	case "bulleted_list_item":
		b.WriteString("- " + plainText(bl.Bulleted) + "\n")
	case "numbered_list_item":
		b.WriteString("1. " + plainText(bl.Numbered) + "\n")
	case "quote":
		b.WriteString("> " + plainText(bl.Quote) + "\n\n")
	case "code":
		b.WriteString("```\n" + plainText(bl.Code) + "\n```\n\n")
	}
}

func plainText(t *blockText) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, rt := range t.RichText {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

func mapPage(p page) PostMetadata {
	props := p.Properties
	meta := PostMetadata{
		ID:            p.ID,
		Title:         "Untitled",
		FeaturedImage: props.FeaturedImage.URL,
		Published:     props.Published.Checkbox,
		Tags:          []string{},
	}
	if len(props.Title.Title) > 0 && props.Title.Title[0].PlainText != "" {
		meta.Title = props.Title.Title[0].PlainText
	}
	if len(props.Slug.RichText) > 0 {
		meta.Slug = props.Slug.RichText[0].PlainText
	}
	if props.Date.Date != nil {
		meta.Date = props.Date.Date.Start
	}
	if len(props.Summary.RichText) > 0 {
		meta.Summary = props.Summary.RichText[0].PlainText
	}
	for _, tag := range props.Tags.MultiSelect {
		meta.Tags = append(meta.Tags, tag.Name)
	}
	return meta
}
