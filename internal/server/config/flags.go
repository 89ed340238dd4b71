package config

import (
	"flag"
	"os"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current value in place.
func parseEnv(config *Config) {
	setString(&config.EndpointAddr, os.Getenv("ENDPOINT_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.ContentKey, os.Getenv("CONTENT_KEY"))
	setDuration(&config.SessionTTL, os.Getenv("SESSION_TTL"))
	setDuration(&config.SweepInterval, os.Getenv("SWEEP_INTERVAL"))
	setString(&config.RelayKind, os.Getenv("RELAY_KIND"))
	setString(&config.HomeserverURL, os.Getenv("HOMESERVER_URL"))
	setString(&config.RelayToken, os.Getenv("RELAY_TOKEN"))
	setString(&config.RelayDomain, os.Getenv("RELAY_DOMAIN"))
	setString(&config.RedisAddr, os.Getenv("REDIS_ADDR"))
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-k string   base64 content encryption key (32 bytes decoded)
//	-ttl int    session validity, hours
//	-sweep int  expired-session sweep interval, minutes
//	-relay string  relay binding: "matrix" or "redis"
//	-hs string  homeserver URL (matrix relay)
//	-token string  relay access token (matrix relay)
//	-domain string relay domain for external identities
//	-redis string  redis address (redis relay)
//	-c string   path to JSON config file (consumed by parseJSON)
func parseFlags(config *Config) {
	args := filterArgs(os.Args[1:], []string{
		"-a", "-d", "-k", "-ttl", "-sweep", "-relay", "-hs", "-token", "-domain", "-redis",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ContentKey, "k", config.ContentKey, "base64 content encryption key")

	sessionTTL := fs.Int("ttl", int(config.SessionTTL.Hours()), "session validity (in hours)")
	sweepInterval := fs.Int("sweep", int(config.SweepInterval.Minutes()), "session sweep interval (in minutes)")

	fs.StringVar(&config.RelayKind, "relay", config.RelayKind, "relay binding (matrix|redis)")
	fs.StringVar(&config.HomeserverURL, "hs", config.HomeserverURL, "relay homeserver URL")
	fs.StringVar(&config.RelayToken, "token", config.RelayToken, "relay access token")
	fs.StringVar(&config.RelayDomain, "domain", config.RelayDomain, "relay domain for external identities")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
}

// filterArgs keeps only the flags this flag set recognizes, so that flags
// handled elsewhere (-c for the JSON file, test flags) do not break parsing.
func filterArgs(args, known []string) []string {
	isKnown := func(a string) bool {
		for _, k := range known {
			if a == k {
				return true
			}
		}
		return false
	}

	var out []string
	for i := 0; i < len(args); i++ {
		if isKnown(args[i]) && i+1 < len(args) {
			out = append(out, args[i], args[i+1])
			i++
		}
	}
	return out
}
