package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/flagx"
)

// parseFlags overlays the CLI flags it knows about; anything else on the
// command line is ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	callTimeout := fs.Int("t", int(cfg.CallTimeout.Seconds()), "call timeout (in seconds)")
	fs.StringVar(&cfg.StatePath, "f", cfg.StatePath, "local state file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.CallTimeout = time.Duration(*callTimeout) * time.Second
}
