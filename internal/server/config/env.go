package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names understood by parseEnv.
const (
	EnvHTTPAddr            = "AUTH_HTTP_ADDR"
	EnvGRPCAddr            = "AUTH_GRPC_ADDR"
	EnvPathPrefix          = "AUTH_PATH_PREFIX"
	EnvDatabaseDSN         = "AUTH_DATABASE_DSN"
	EnvSecretKey           = "AUTH_SECRET_KEY"
	EnvAccessTokenTTL      = "AUTH_ACCESS_TOKEN_TTL"
	EnvResetCodeTTL        = "AUTH_RESET_CODE_TTL"
	EnvBcryptCost          = "AUTH_BCRYPT_COST"
	EnvRedisAddr           = "AUTH_REDIS_ADDR"
	EnvRedisPassword       = "AUTH_REDIS_PASSWORD"
	EnvRedisDB             = "AUTH_REDIS_DB"
	EnvSMTPHost            = "AUTH_SMTP_HOST"
	EnvSMTPPort            = "AUTH_SMTP_PORT"
	EnvSMTPUser            = "AUTH_SMTP_USER"
	EnvSMTPPassword        = "AUTH_SMTP_PASSWORD"
	EnvMailFrom            = "AUTH_MAIL_FROM"
	EnvNotificationTimeout = "AUTH_NOTIFICATION_TIMEOUT"
	EnvLogLevel            = "AUTH_LOG_LEVEL"
)

// parseEnv overlays AUTH_* environment variables onto config.
//
// When -env-file is given that file must load; otherwise a .env in the
// working directory is loaded if present. godotenv never overrides variables
// already set in the real environment. Malformed numbers or durations panic,
// same as a broken JSON file.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&config.EndpointAddrHTTP, EnvHTTPAddr)
	envString(&config.EndpointAddrGRPC, EnvGRPCAddr)
	envString(&config.AuthPathPrefix, EnvPathPrefix)
	envString(&config.DatabaseDSN, EnvDatabaseDSN)
	envString(&config.SecretKey, EnvSecretKey)
	envDuration(&config.AccessTokenValidityDuration, EnvAccessTokenTTL)
	envDuration(&config.PasswordResetCodeValidityDuration, EnvResetCodeTTL)
	envInt(&config.BcryptCost, EnvBcryptCost)
	envString(&config.RedisAddr, EnvRedisAddr)
	envString(&config.RedisPassword, EnvRedisPassword)
	envInt(&config.RedisDB, EnvRedisDB)
	envString(&config.SMTPHost, EnvSMTPHost)
	envInt(&config.SMTPPort, EnvSMTPPort)
	envString(&config.SMTPUser, EnvSMTPUser)
	envString(&config.SMTPPassword, EnvSMTPPassword)
	envString(&config.MailFrom, EnvMailFrom)
	envDuration(&config.NotificationTimeout, EnvNotificationTimeout)
	envString(&config.LogLevel, EnvLogLevel)
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = d
}
