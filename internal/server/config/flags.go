package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-x string   auth route prefix (e.g., "/api/auth")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      password reset code validity, minutes
//	-k int      bcrypt cost
//	-u string   redis address
//	-m string   SMTP host
//	-p int      SMTP port
//	-f string   mail "From" address
//	-n int      notification timeout, seconds
//	-l string   log level
//
// Secrets other than the JWT key (SMTP and redis passwords) are only read
// from JSON or the environment so they do not show up in process listings.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-x", "-d", "-s", "-t", "-r", "-k", "-u", "-m", "-p", "-f", "-n", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve HTTP on")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to serve gRPC health on")
	fs.StringVar(&config.AuthPathPrefix, "x", config.AuthPathPrefix, "auth route prefix")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	resetCodeValidityDuration := fs.Int("r", int(config.PasswordResetCodeValidityDuration.Minutes()), "password_reset_code_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "u", config.RedisAddr, "redis address")
	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "p", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "mail from address")

	notificationTimeout := fs.Int("n", int(config.NotificationTimeout.Seconds()), "notification timeout (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations are only touched when given explicitly, so sub-minute values
	// from JSON or the environment survive the integer round trip.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.PasswordResetCodeValidityDuration = time.Duration(*resetCodeValidityDuration) * time.Minute
		case "n":
			config.NotificationTimeout = time.Duration(*notificationTimeout) * time.Second
		}
	})
}
