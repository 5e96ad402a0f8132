package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NatsURL                string
	JWTSecret              string
	IssuerName             string
	GitHubAPIBase          string
	GitHubToken            string
	GitHubTimeout          time.Duration
	IPFSAPIURL             string
	IPFSToken              string
	IPFSGatewayURL         string
	LedgerSignerURL        string
	LedgerContractAddress  string
	LedgerIssuerKey        string
	ApprovalMinScore       int
	EmployerInitialCredits int
	SearchCacheTTL         time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKILLCHAIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SkillChain API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("issuer.name", "SkillChain Admin")
	v.SetDefault("github.api_base", "https://api.github.com")
	v.SetDefault("github.timeout_ms", 10000)
	v.SetDefault("ipfs.gateway_url", "https://w3s.link/ipfs")
	v.SetDefault("approval.min_score", 0)
	v.SetDefault("employer.initial_credits", 5)
	v.SetDefault("search.cache_ttl", "2m")

	cacheTTLString := v.GetString("search.cache_ttl")
	if cacheTTLString == "" {
		cacheTTLString = "2m"
	}

	cacheTTL, err := time.ParseDuration(cacheTTLString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid search cache ttl: %w", err)
	}

	githubTimeoutMs := v.GetInt("github.timeout_ms")
	if githubTimeoutMs <= 0 {
		githubTimeoutMs = 10000
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NatsURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		IssuerName:             v.GetString("issuer.name"),
		GitHubAPIBase:          v.GetString("github.api_base"),
		GitHubToken:            v.GetString("github.token"),
		GitHubTimeout:          time.Duration(githubTimeoutMs) * time.Millisecond,
		IPFSAPIURL:             v.GetString("ipfs.api_url"),
		IPFSToken:              v.GetString("ipfs.token"),
		IPFSGatewayURL:         v.GetString("ipfs.gateway_url"),
		LedgerSignerURL:        v.GetString("ledger.signer_url"),
		LedgerContractAddress:  v.GetString("ledger.contract_address"),
		LedgerIssuerKey:        v.GetString("ledger.issuer_key"),
		ApprovalMinScore:       v.GetInt("approval.min_score"),
		EmployerInitialCredits: v.GetInt("employer.initial_credits"),
		SearchCacheTTL:         cacheTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ApprovalMinScore < 0 || cfg.ApprovalMinScore > 100 {
		return Config{}, fmt.Errorf("approval min score must be within [0, 100]")
	}

	if cfg.EmployerInitialCredits < 0 {
		cfg.EmployerInitialCredits = 5
	}

	return cfg, nil
}
