package config

import (
	"encoding/json"
	"os"
	"time"
)

// jsonConfig is the DTO for the optional JSON config file. Durations are
// strings in time.ParseDuration form ("720h"). Empty fields leave the
// current value untouched.
type jsonConfig struct {
	EndpointAddr  string `json:"endpoint_addr"`
	DatabaseDSN   string `json:"database_dsn"`
	ContentKey    string `json:"content_key"`
	SessionTTL    string `json:"session_ttl"`
	SweepInterval string `json:"sweep_interval"`
	RelayKind     string `json:"relay_kind"`
	HomeserverURL string `json:"homeserver_url"`
	RelayToken    string `json:"relay_token"`
	RelayDomain   string `json:"relay_domain"`
	RedisAddr     string `json:"redis_addr"`
}

// parseJSON overlays values from the file named by CONFIG or the -c flag.
// A missing variable means no JSON file is loaded; an unreadable or invalid
// file is a startup failure.
func parseJSON(config *Config) {
	path := jsonConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.ContentKey, c.ContentKey)
	setDuration(&config.SessionTTL, c.SessionTTL)
	setDuration(&config.SweepInterval, c.SweepInterval)
	setString(&config.RelayKind, c.RelayKind)
	setString(&config.HomeserverURL, c.HomeserverURL)
	setString(&config.RelayToken, c.RelayToken)
	setString(&config.RelayDomain, c.RelayDomain)
	setString(&config.RedisAddr, c.RedisAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

// jsonConfigPath finds the config file path from the environment or from a
// -c/-config flag without consuming the rest of the command line.
func jsonConfigPath() string {
	if v := os.Getenv("CONFIG"); v != "" {
		return v
	}
	args := os.Args[1:]
	for i, a := range args {
		if a == "-c" || a == "-config" || a == "--config" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}
