package comicvine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/scraper/providers"
)

// ComicVineProvider implements the MetadataProvider interface for the
// ComicVine volume search API.
type ComicVineProvider struct {
	client     *http.Client
	apiBaseURL string
}

// New creates a new instance of the ComicVineProvider.
func New(apiBaseURL string) *ComicVineProvider {
	return &ComicVineProvider{
		client:     &http.Client{Timeout: 20 * time.Second},
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
	}
}

// GetInfo returns static information about this provider.
func (p *ComicVineProvider) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   "comicvine",
		Name: "ComicVine",
	}
}

// Lookup searches volumes named exactly like series (ignoring case) and
// folds them into one knowledge entry, volumes numbered by start year.
func (p *ComicVineProvider) Lookup(ctx context.Context, series string, creds models.Credentials) (*models.ComicKnowledge, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/search/", p.apiBaseURL), nil)
	if err != nil {
		return nil, "", err
	}

	q := req.URL.Query()
	q.Add("api_key", creds.APIKey)
	q.Add("format", "json")
	q.Add("resources", "volume")
	q.Add("query", series)
	q.Add("field_list", "name,start_year,publisher,deck,description")
	q.Add("limit", "25")
	req.URL.RawQuery = q.Encode()
	// The API refuses requests without a user agent.
	req.Header.Set("User-Agent", "comic-go/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, "", providers.ErrInvalidCredentials
	}

	var apiResponse searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, "", fmt.Errorf("failed to decode search response: %w", err)
	}
	switch apiResponse.StatusCode {
	case statusOK:
	case statusInvalidAPIKey:
		return nil, "", providers.ErrInvalidCredentials
	default:
		return nil, "", fmt.Errorf("search failed: %s", apiResponse.Error)
	}

	var exact []volumeResult
	for _, v := range apiResponse.Results {
		if strings.EqualFold(strings.TrimSpace(v.Name), strings.TrimSpace(series)) {
			exact = append(exact, v)
		}
	}
	if len(exact) == 0 {
		return nil, "", nil
	}

	sort.SliceStable(exact, func(i, j int) bool {
		return parseYear(exact[i].StartYear) < parseYear(exact[j].StartYear)
	})

	first := exact[0]
	k := &models.ComicKnowledge{
		Series:    first.Name,
		StartYear: parseYear(first.StartYear),
	}
	if first.Publisher != nil {
		k.Publisher = first.Publisher.Name
	}
	for i, v := range exact {
		k.Volumes = append(k.Volumes, models.KnowledgeVolume{
			Volume: strconv.Itoa(i + 1),
			Year:   parseYear(v.StartYear),
		})
	}

	summary := strings.TrimSpace(first.Deck)
	if summary == "" {
		summary = htmlToText(first.Description)
	}
	return k, summary, nil
}

func parseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return year
}

// htmlToText flattens an HTML description into a single line of text.
func htmlToText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, figure").Remove()

	// Text nodes are joined with spaces so adjacent blocks don't run together.
	var parts []string
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				parts = append(parts, c.Text())
				return
			}
			walk(c)
		})
	}
	walk(doc.Selection)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
