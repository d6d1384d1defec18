// Package config handles application configuration.
package config

import (
	"io/fs"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"

	"github.com/johncarpenter/rakuten-mcp/internal/project"
)

// Environment keys read by Load.
const (
	EnvRakutenAppID    = "RAKUTEN_APPLICATION_ID"
	EnvRakutenEndpoint = "RAKUTEN_API_ENDPOINT"
	EnvLogPath         = "MCP_LOG_PATH"
	EnvDebug           = "MCP_DEBUG"
)

// Config holds the application configuration. It is built once at startup
// and handed to the components that need it.
type Config struct {
	ProjectRoot string
	EnvFile     string

	RakutenAppID    string
	RakutenEndpoint string

	LogPath string
	Debug   bool
}

// Load builds a Config from the dotenv file and the process environment.
// Process environment variables take precedence over the dotenv file.
//
// If envFile is empty, {projectRoot}/.env is used and may be absent. An
// explicitly named envFile must exist.
func Load(envFile string) (*Config, error) {
	return LoadWith(envFile, os.LookupEnv)
}

// LoadWith is Load with a custom environment lookup.
func LoadWith(envFile string, lookup func(string) (string, bool)) (*Config, error) {
	projectRoot := project.FindRoot()

	cfg := &Config{
		ProjectRoot: projectRoot,
		EnvFile:     envFile,
	}

	explicit := envFile != ""
	if !explicit {
		cfg.EnvFile = project.EnvPath(projectRoot)
	}

	fileEnv, err := godotenv.Read(cfg.EnvFile)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "read env file %s", cfg.EnvFile)
		}
		fileEnv = map[string]string{}
	}

	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return fileEnv[key]
	}

	cfg.RakutenAppID = get(EnvRakutenAppID)
	cfg.RakutenEndpoint = get(EnvRakutenEndpoint)
	cfg.LogPath = get(EnvLogPath)
	cfg.Debug = misc.Truthy(get(EnvDebug))

	return cfg, nil
}
