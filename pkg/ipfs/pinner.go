package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultAPIURL     = "https://api.web3.storage/upload"
	defaultGatewayURL = "https://w3s.link/ipfs"
)

// ErrNotConfigured indicates the pinning token is missing. Issuance must not
// proceed without a real pin, so there is no stub fallback.
var ErrNotConfigured = errors.New("content storage is not configured")

// Config contains settings for the content-addressed storage client.
type Config struct {
	APIURL     string
	Token      string
	GatewayURL string
	Timeout    time.Duration
}

// PinResult references content pinned to storage.
type PinResult struct {
	CID string
	URL string
}

// Pinner uploads JSON payloads to content-addressed storage and retrieves them.
type Pinner struct {
	httpClient *http.Client
	apiURL     string
	token      string
	gatewayURL string
	logger     zerolog.Logger
}

// New constructs a Pinner.
func New(cfg Config, logger zerolog.Logger) *Pinner {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	gatewayURL := strings.TrimSuffix(cfg.GatewayURL, "/")
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Pinner{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		token:      cfg.Token,
		gatewayURL: gatewayURL,
		logger:     logger.With().Str("component", "ipfs_pinner").Logger(),
	}
}

// IsConfigured reports whether the pinner has credentials.
func (p *Pinner) IsConfigured() bool {
	return p.token != ""
}

// PinJSON uploads the payload and returns its content identifier and gateway
// URL. Any failure is surfaced as an error; callers own the fallback policy.
func (p *Pinner) PinJSON(ctx context.Context, payload interface{}) (PinResult, error) {
	if !p.IsConfigured() {
		return PinResult{}, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return PinResult{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return PinResult{}, fmt.Errorf("failed to build pin request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return PinResult{}, fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PinResult{}, fmt.Errorf("pin request returned status %d: %s", resp.StatusCode, string(detail))
	}

	var result struct {
		CID string `json:"cid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PinResult{}, fmt.Errorf("failed to decode pin response: %w", err)
	}

	if result.CID == "" {
		return PinResult{}, fmt.Errorf("pin response missing cid")
	}

	p.logger.Info().Str("cid", result.CID).Msg("payload pinned to content storage")

	return PinResult{
		CID: result.CID,
		URL: fmt.Sprintf("%s/%s", p.gatewayURL, result.CID),
	}, nil
}

// FetchJSON retrieves a pinned payload from its gateway URL. Numbers are
// decoded as json.Number so the payload re-hashes exactly as it was pinned.
func (p *Pinner) FetchJSON(ctx context.Context, contentURL string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, contentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch request returned status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode pinned payload: %w", err)
	}

	return payload, nil
}
