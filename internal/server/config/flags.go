package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/smartlearn/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   TCP bind address (e.g., "127.0.0.1:8080")
//	-d string   database DSN (SQLite path or postgres:// URL)
//	-p string   password policy name ("standard" or "relaxed")
//	-s string   password hash salt
//	-w int      shutdown grace period, seconds
//
// Only the flags listed here are parsed; flagx.FilterArgs drops everything
// else so other components can define their own flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-p", "-s", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PasswordPolicy, "p", config.PasswordPolicy, "password policy name")
	fs.StringVar(&config.PasswordSalt, "s", config.PasswordSalt, "password hash salt")

	grace := fs.Int("w", int(config.ShutdownGracePeriod.Seconds()), "shutdown grace period (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownGracePeriod = time.Duration(*grace) * time.Second
}
