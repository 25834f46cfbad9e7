// Package config handles configuration for the auth server,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import "time"

// Config holds runtime settings for the authkeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public JSON API.
//   - EndpointAddrGRPC: bind address for the gRPC health service.
//   - AuthPathPrefix: route group the auth endpoints are mounted under.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: session token lifetime.
//   - PasswordResetCodeValidityDuration: how long a reset code stays usable.
//   - BcryptCost: work factor for password hashes.
//   - RedisAddr / RedisPassword / RedisDB: revocation list backend. Empty addr
//     selects the in-memory list.
//   - SMTPHost / SMTPPort / SMTPUser / SMTPPassword / MailFrom: outbound mail.
//     Empty host selects the log-only notifier.
//   - NotificationTimeout: upper bound for a single email dispatch.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP                  string
	EndpointAddrGRPC                  string
	AuthPathPrefix                    string
	DatabaseDSN                       string
	SecretKey                         string
	AccessTokenValidityDuration       time.Duration
	PasswordResetCodeValidityDuration time.Duration
	BcryptCost                        int
	RedisAddr                         string
	RedisPassword                     string
	RedisDB                           int
	SMTPHost                          string
	SMTPPort                          int
	SMTPUser                          string
	SMTPPassword                      string
	MailFrom                          string
	NotificationTimeout               time.Duration
	LogLevel                          string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.AuthPathPrefix = "/api/auth"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.PasswordResetCodeValidityDuration = 20 * time.Minute
	c.BcryptCost = 10
	c.RedisAddr = ""
	c.RedisDB = 0
	c.SMTPHost = ""
	c.SMTPPort = 587
	c.MailFrom = "no-reply@authkeeper.local"
	c.NotificationTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (optionally seeded from a
// .env file) and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
