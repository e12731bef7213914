// Package github fetches the showcased repository listing from the GitHub
// REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/escuadron-404/sitio/internal/config"
	"github.com/escuadron-404/sitio/internal/content"
	siteerr "github.com/escuadron-404/sitio/internal/errors"
)

const noDescriptionPlaceholder = "No description provided."

// Client lists public repositories for one user or organization handle.
type Client struct {
	httpClient *http.Client
	apiURL     string
	handle     string
	token      string
	perPage    int
}

// NewClient creates a client from the GitHub section of the config.
// The bearer credential is optional; without it the unauthenticated rate
// limits apply.
func NewClient(cfg config.GitHubConfig) (*Client, error) {
	if cfg.Handle == "" {
		return nil, fmt.Errorf("github handle not configured")
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 3
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     apiURL,
		handle:     cfg.Handle,
		token:      cfg.Token,
		perPage:    perPage,
	}, nil
}

// githubRepo is the subset of a repository record we consume.
type githubRepo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	HTMLURL     string   `json:"html_url"`
	Homepage    string   `json:"homepage"`
}

// ListProjects fetches the most recently updated repositories and maps
// them to project cards. Missing descriptions become a fixed placeholder
// and missing topic lists become empty tag sets.
func (c *Client) ListProjects(ctx context.Context) ([]content.ProjectCard, error) {
	url := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", c.apiURL, c.handle, c.perPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, siteerr.UpstreamFailed("github", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, siteerr.UpstreamFailed("github",
			fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body)))
	}

	var repos []githubRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, siteerr.UpstreamFailed("github", fmt.Errorf("decode response: %w", err))
	}

	projects := make([]content.ProjectCard, 0, len(repos))
	for _, r := range repos {
		card := content.ProjectCard{
			Title:       r.Name,
			Description: r.Description,
			Tags:        r.Topics,
			ProjectLink: r.HTMLURL,
			DemoLink:    r.Homepage,
		}
		if card.Description == "" {
			card.Description = noDescriptionPlaceholder
		}
		if card.Tags == nil {
			card.Tags = []string{}
		}
		projects = append(projects, card)
	}
	return projects, nil
}
