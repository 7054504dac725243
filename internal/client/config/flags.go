package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs first so flags owned by other loaders (such
// as -c) do not break parsing. Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access the document service")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local preferences database")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token for feed requests")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "feed request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
