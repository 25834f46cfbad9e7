package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the auth API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//
// os.Args is filtered with flagx.FilterArgs so flags meant for other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the auth API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
