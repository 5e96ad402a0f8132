package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured indicates the signer endpoint or contract is missing.
var ErrNotConfigured = errors.New("ledger signer is not configured")

// Config contains settings for the ledger signer client.
type Config struct {
	SignerURL       string
	ContractAddress string
	IssuerKey       string
	Timeout         time.Duration
}

// MintParams describe a credential anchoring request.
type MintParams struct {
	RecipientAddress string `json:"recipientAddress"`
	SkillSlug        string `json:"skillSlug"`
	Score            int    `json:"score"`
	ContentRef       string `json:"contentRef"`
}

// Client anchors credential references on a distributed ledger through a
// configured signer service. Every failure mode (configuration, network,
// execution) surfaces as an error; callers treat anchoring as best-effort.
type Client struct {
	httpClient *http.Client
	signerURL  string
	contract   string
	issuerKey  string
	logger     zerolog.Logger
}

// New constructs a ledger client.
func New(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		signerURL:  cfg.SignerURL,
		contract:   cfg.ContractAddress,
		issuerKey:  cfg.IssuerKey,
		logger:     logger.With().Str("component", "ledger_client").Logger(),
	}
}

// IsConfigured reports whether the client can submit transactions.
func (c *Client) IsConfigured() bool {
	return c.signerURL != "" && c.contract != "" && c.issuerKey != ""
}

// Mint submits a credential anchoring transaction and returns its hash.
func (c *Client) Mint(ctx context.Context, params MintParams) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	request := struct {
		Contract string     `json:"contract"`
		Method   string     `json:"method"`
		Params   MintParams `json:"params"`
	}{
		Contract: c.contract,
		Method:   "mintCredential",
		Params:   params,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signerURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build mint request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.issuerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mint request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("mint request returned status %d: %s", resp.StatusCode, string(detail))
	}

	var result struct {
		TransactionHash string `json:"transactionHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode mint response: %w", err)
	}

	if result.TransactionHash == "" {
		return "", fmt.Errorf("mint response missing transaction hash")
	}

	c.logger.Info().Str("tx_hash", result.TransactionHash).Str("skill", params.SkillSlug).Msg("credential anchored on ledger")

	return result.TransactionHash, nil
}
