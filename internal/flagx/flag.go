// Package flagx lets several configuration layers share os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowedFlags (and their values) from args.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A token
// following an allowed flag is treated as its value unless it starts with "-".
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// pathFlag extracts a single string flag given in short or long form from
// os.Args. The last occurrence wins; absence yields "".
func pathFlag(short, long, usage string) string {
	var v string

	args := FilterArgs(os.Args[1:], []string{"-" + short, "-" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&v, long, "", usage)
	fs.StringVar(&v, short, "", usage+" (short)")
	_ = fs.Parse(args)

	return v
}

// JsonConfigFlags returns the JSON config path given via -c or -config.
func JsonConfigFlags() string {
	return pathFlag("c", "config", "Path to config file")
}

// EnvFileFlags returns the dotenv file path given via -env-file.
// There is no short form because every single letter is taken by the
// server's own flags.
func EnvFileFlags() string {
	var v string

	args := FilterArgs(os.Args[1:], []string{"-env-file"})

	fs := flag.NewFlagSet("env-file", flag.ContinueOnError)
	fs.StringVar(&v, "env-file", "", "Path to .env file")
	_ = fs.Parse(args)

	return v
}
