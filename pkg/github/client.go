package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.github.com"

// ErrInvalidRepoURL indicates the repository URL could not be parsed into owner/name.
var ErrInvalidRepoURL = errors.New("invalid repository url")

// ErrRepoUnavailable indicates the repository metadata could not be fetched.
var ErrRepoUnavailable = errors.New("repository not found or inaccessible")

// Metadata holds the core repository facts used for scoring.
type Metadata struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	CreatedAt     time.Time `json:"created_at"`
	PushedAt      time.Time `json:"pushed_at"`
	ForksCount    int       `json:"forks_count"`
	StarsCount    int       `json:"stargazers_count"`
	DefaultBranch string    `json:"default_branch"`
}

// Commit is a single entry from the repository commit listing.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
}

// AuthoredAt returns the author date of the commit.
func (c Commit) AuthoredAt() time.Time {
	return c.Commit.Author.Date
}

// Contributor is a single entry from the repository contributor listing.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// Config contains settings for the code-hosting client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a read-only client for the code-hosting API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

// New constructs a code-hosting client.
func New(cfg Config, logger zerolog.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.Token,
		logger:     logger.With().Str("component", "github_client").Logger(),
	}
}

// ParseRepoURL extracts owner and repository name from a repository URL.
func ParseRepoURL(rawURL string) (string, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", "", ErrInvalidRepoURL
	}

	parts := make([]string, 0, 2)
	for _, segment := range strings.Split(parsed.Path, "/") {
		if segment != "" {
			parts = append(parts, segment)
		}
	}

	if len(parts) < 2 {
		return "", "", ErrInvalidRepoURL
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// GetMetadata fetches the repository record. A failure here means the repository
// is missing, private or rate limited and the caller cannot proceed.
func (c *Client) GetMetadata(ctx context.Context, owner, repo string) (Metadata, error) {
	var metadata Metadata
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &metadata); err != nil {
		c.logger.Error().Err(err).Str("owner", owner).Str("repo", repo).Msg("failed to fetch repo metadata")
		return Metadata{}, ErrRepoUnavailable
	}

	return metadata, nil
}

// GetLanguages fetches the per-language byte histogram.
func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	languages := map[string]int64{}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, repo), &languages); err != nil {
		return nil, err
	}

	return languages, nil
}

// CheckReadmeExists reports whether the repository exposes a README.
func (c *Client) CheckReadmeExists(ctx context.Context, owner, repo string) (bool, error) {
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/readme", owner, repo), nil); err != nil {
		return false, err
	}

	return true, nil
}

// ListCommits fetches the most recent page of commits, newest first.
func (c *Client) ListCommits(ctx context.Context, owner, repo string) ([]Commit, error) {
	var commits []Commit
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=100", owner, repo)
	if err := c.getJSON(ctx, path, &commits); err != nil {
		return nil, err
	}

	return commits, nil
}

// ListContributors fetches the top contributors by commit count.
func (c *Client) ListContributors(ctx context.Context, owner, repo string) ([]Contributor, error) {
	var contributors []Contributor
	path := fmt.Sprintf("/repos/%s/%s/contributors?per_page=10", owner, repo)
	if err := c.getJSON(ctx, path, &contributors); err != nil {
		return nil, err
	}

	return contributors, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
