// Package installer registers rakuten-mcp in an MCP host's settings file.
package installer

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/johncarpenter/rakuten-mcp/internal/project"
)

// ServerName is the key used under mcpServers.
const ServerName = "rakuten-mcp"

// ErrAlreadyInstalled is returned by Install when an entry already exists.
var ErrAlreadyInstalled = errors.New("rakuten-mcp is already installed")

// ServerEntry is one mcpServers entry.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// settings is an MCP host settings file. Keys other than mcpServers are
// kept as-is.
type settings struct {
	MCPServers map[string]json.RawMessage
	Other      map[string]json.RawMessage
}

// InstallOptions configures the installation.
type InstallOptions struct {
	Global bool // user-level ~/.claude.json instead of the project's .mcp.json
}

// Installer manages the server entry.
type Installer struct {
	command     string
	projectRoot string
	homeDir     func() (string, error)
}

// NewInstaller creates an installer that registers command, run from
// projectRoot for project-level installs.
func NewInstaller(command, projectRoot string) *Installer {
	return &Installer{
		command:     command,
		projectRoot: projectRoot,
		homeDir:     os.UserHomeDir,
	}
}

// Install adds the server entry.
func (i *Installer) Install(opts InstallOptions) error {
	path, err := i.SettingsPath(opts)
	if err != nil {
		return err
	}

	s, err := readSettings(path)
	if err != nil {
		return err
	}
	if _, ok := s.MCPServers[ServerName]; ok {
		return ErrAlreadyInstalled
	}

	entry, err := json.Marshal(i.entry())
	if err != nil {
		return errors.Wrap(err, "marshal server entry")
	}
	s.MCPServers[ServerName] = entry

	return writeSettings(path, s)
}

// Uninstall removes the server entry. A missing settings file is not an
// error.
func (i *Installer) Uninstall(opts InstallOptions) error {
	path, err := i.SettingsPath(opts)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	s, err := readSettings(path)
	if err != nil {
		return err
	}
	if _, ok := s.MCPServers[ServerName]; !ok {
		return nil
	}
	delete(s.MCPServers, ServerName)

	return writeSettings(path, s)
}

// IsInstalled reports whether the server entry is present.
func (i *Installer) IsInstalled(opts InstallOptions) bool {
	path, err := i.SettingsPath(opts)
	if err != nil {
		return false
	}
	s, err := readSettings(path)
	if err != nil {
		return false
	}
	_, ok := s.MCPServers[ServerName]
	return ok
}

// SettingsPath returns the file Install and Uninstall edit.
func (i *Installer) SettingsPath(opts InstallOptions) (string, error) {
	if opts.Global {
		home, err := i.homeDir()
		if err != nil {
			return "", errors.Wrap(err, "get home directory")
		}
		return filepath.Join(home, ".claude.json"), nil
	}
	return project.MCPConfigPath(i.projectRoot), nil
}

// GetMCPConfig returns the settings snippet for manual installs.
func (i *Installer) GetMCPConfig() string {
	data, _ := json.MarshalIndent(map[string]interface{}{
		"mcpServers": map[string]ServerEntry{ServerName: i.entry()},
	}, "", "  ")
	return string(data)
}

func (i *Installer) entry() ServerEntry {
	return ServerEntry{
		Command: i.command,
		Args:    []string{"serve"},
	}
}

func readSettings(path string) (*settings, error) {
	s := &settings{
		MCPServers: map[string]json.RawMessage{},
		Other:      map[string]json.RawMessage{},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read settings")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	for k, v := range raw {
		if k != "mcpServers" {
			s.Other[k] = v
			continue
		}
		if string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, &s.MCPServers); err != nil {
			return nil, errors.Wrapf(err, "parse mcpServers in %s", path)
		}
	}

	return s, nil
}

func writeSettings(path string, s *settings) error {
	data := make(map[string]json.RawMessage, len(s.Other)+1)
	for k, v := range s.Other {
		data[k] = v
	}

	servers, err := json.Marshal(s.MCPServers)
	if err != nil {
		return errors.Wrap(err, "marshal mcpServers")
	}
	data["mcpServers"] = servers

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create settings directory")
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return errors.Wrap(err, "write settings")
	}
	return nil
}
