package tools

import (
	"context"
	"log"
	"strconv"

	"github.com/anhtu-vn/gochat/internal/ai"
	"github.com/go-resty/resty/v2"
)

const (
	googleSearchURL = "https://www.googleapis.com/customsearch/v1"
	bingSearchURL   = "https://api.bing.microsoft.com/v7.0/search"
)

type SearchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// SearchResult is what the model receives as the tool result. Provider
// failures surface as an empty result set with an error marker, never as
// an error to the caller.
type SearchResult struct {
	Results      []SearchItem `json:"results"`
	TotalResults int64        `json:"totalResults"`
	Error        string       `json:"error,omitempty"`
}

// SearchClient queries Google Custom Search when configured, falling back
// to Bing Web Search otherwise.
type SearchClient struct {
	GoogleAPIKey string
	GoogleCX     string
	BingAPIKey   string

	// overridable for tests
	GoogleURL string
	BingURL   string

	client *resty.Client
}

func NewSearchClient(googleAPIKey, googleCX, bingAPIKey string) *SearchClient {
	return &SearchClient{
		GoogleAPIKey: googleAPIKey,
		GoogleCX:     googleCX,
		BingAPIKey:   bingAPIKey,
		GoogleURL:    googleSearchURL,
		BingURL:      bingSearchURL,
		client:       resty.New(),
	}
}

type googleSearchResp struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
}

type bingSearchResp struct {
	WebPages struct {
		TotalEstimatedMatches int64 `json:"totalEstimatedMatches"`
		Value                 []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// SearchWeb runs the query against the configured engine.
func (c *SearchClient) SearchWeb(ctx context.Context, query string) SearchResult {
	switch {
	case c.GoogleAPIKey != "" && c.GoogleCX != "":
		return c.searchGoogle(ctx, query)
	case c.BingAPIKey != "":
		return c.searchBing(ctx, query)
	default:
		return SearchResult{Results: []SearchItem{}, Error: "no search engine configured"}
	}
}

func (c *SearchClient) searchGoogle(ctx context.Context, query string) SearchResult {
	var decoded googleSearchResp
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": c.GoogleAPIKey,
			"cx":  c.GoogleCX,
			"q":   query,
		}).
		SetResult(&decoded).
		Get(c.GoogleURL)
	if err != nil {
		log.Printf("search_web google failed query=%q err=%v", query, err)
		return SearchResult{Results: []SearchItem{}, Error: "error searching Google"}
	}
	if resp.IsError() {
		log.Printf("search_web google failed query=%q status=%d", query, resp.StatusCode())
		return SearchResult{Results: []SearchItem{}, Error: "error searching Google"}
	}

	items := make([]SearchItem, 0, len(decoded.Items))
	for _, it := range decoded.Items {
		items = append(items, SearchItem{Title: it.Title, Link: it.Link, Snippet: it.Snippet})
	}
	total, _ := strconv.ParseInt(decoded.SearchInformation.TotalResults, 10, 64)
	return SearchResult{Results: items, TotalResults: total}
}

func (c *SearchClient) searchBing(ctx context.Context, query string) SearchResult {
	var decoded bingSearchResp
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Ocp-Apim-Subscription-Key", c.BingAPIKey).
		SetQueryParams(map[string]string{
			"q":     query,
			"count": "10",
		}).
		SetResult(&decoded).
		Get(c.BingURL)
	if err != nil {
		log.Printf("search_web bing failed query=%q err=%v", query, err)
		return SearchResult{Results: []SearchItem{}, Error: "error searching Bing"}
	}
	if resp.IsError() {
		log.Printf("search_web bing failed query=%q status=%d", query, resp.StatusCode())
		return SearchResult{Results: []SearchItem{}, Error: "error searching Bing"}
	}

	items := make([]SearchItem, 0, len(decoded.WebPages.Value))
	for _, it := range decoded.WebPages.Value {
		items = append(items, SearchItem{Title: it.Name, Link: it.URL, Snippet: it.Snippet})
	}
	return SearchResult{Results: items, TotalResults: decoded.WebPages.TotalEstimatedMatches}
}

// SearchWebDefinition is the provider-facing schema for the search tool.
func SearchWebDefinition() ai.FunctionDefinition {
	return ai.FunctionDefinition{
		Name:        "search_web",
		Description: "Search the web for real-time information",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
	}
}

// RegisterSearch wires the search_web tool into the registry.
func RegisterSearch(reg *Registry, sc *SearchClient) {
	reg.Register(SearchWebDefinition(), func(ctx context.Context, args map[string]any) any {
		query, _ := args["query"].(string)
		return sc.SearchWeb(ctx, query)
	})
}
