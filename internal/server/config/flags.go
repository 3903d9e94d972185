package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/inkly/inkly/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-l", "-v", "-m", "-u", "-p", "-b", "-g", "-e", "-x"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      minted token validity, minutes
//	-l string   log backend (slog|zap)
//	-v string   log level (debug|info|warn|error)
//	-m string   moderation policy YAML file
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      avatar URL expiry, minutes
//
// Only the flags above are looked at, so unrelated arguments (the config
// file flag, test runner flags) pass through untouched.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("inkly", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.ModerationPolicyFile, "m", config.ModerationPolicyFile, "moderation policy file")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	avatarExpiry := fs.Int("x", int(config.AvatarURLExpiry.Minutes()), "avatar URL expiry (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags...)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.AvatarURLExpiry = time.Duration(*avatarExpiry) * time.Minute
	return nil
}
