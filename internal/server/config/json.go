package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "20m" and integer nanoseconds are accepted.
// Only keys present in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP                  *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC                  *string         `json:"endpoint_addr_grpc"`
	AuthPathPrefix                    *string         `json:"auth_path_prefix"`
	DatabaseDSN                       *string         `json:"database_dsn"`
	SecretKey                         *string         `json:"secret_key"`
	AccessTokenValidityDuration       *timex.Duration `json:"access_token_validity_duration"`
	PasswordResetCodeValidityDuration *timex.Duration `json:"password_reset_code_validity_duration"`
	BcryptCost                        *int            `json:"bcrypt_cost"`
	RedisAddr                         *string         `json:"redis_addr"`
	RedisPassword                     *string         `json:"redis_password"`
	RedisDB                           *int            `json:"redis_db"`
	SMTPHost                          *string         `json:"smtp_host"`
	SMTPPort                          *int            `json:"smtp_port"`
	SMTPUser                          *string         `json:"smtp_user"`
	SMTPPassword                      *string         `json:"smtp_password"`
	MailFrom                          *string         `json:"mail_from"`
	NotificationTimeout               *timex.Duration `json:"notification_timeout"`
	LogLevel                          *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag. Without the flag nothing happens. An unreadable file or
// invalid JSON panics: the process cannot start with a half-read config.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.AuthPathPrefix, c.AuthPathPrefix)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.PasswordResetCodeValidityDuration, c.PasswordResetCodeValidityDuration)
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)
	setDuration(&config.NotificationTimeout, c.NotificationTimeout)
	setString(&config.LogLevel, c.LogLevel)
}
