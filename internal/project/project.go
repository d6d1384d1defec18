// Package project provides project root detection and path utilities.
package project

import (
	"os"
	"path/filepath"
)

// FindRoot detects the project root by walking up the directory tree.
// It looks for markers in this order:
//  1. .git directory
//  2. .mcp.json file
//  3. .env file
//
// If no marker is found, returns the current working directory.
func FindRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return FindRootFrom(wd)
}

// FindRootFrom detects the project root starting from the given directory.
func FindRootFrom(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return startDir
	}

	for {
		if isProjectRoot(dir) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return startDir
	}
	return abs
}

// isProjectRoot checks if a directory contains project markers.
func isProjectRoot(dir string) bool {
	markers := []string{
		filepath.Join(dir, ".git"),
		filepath.Join(dir, MCPConfigFile),
		filepath.Join(dir, EnvFile),
	}

	for _, marker := range markers {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}
	return false
}

const (
	// EnvFile is the dotenv file read at startup.
	EnvFile = ".env"
	// MCPConfigFile is the project-scoped MCP server registry read by hosts.
	MCPConfigFile = ".mcp.json"
)

// EnvPath returns the dotenv path for a given project root.
// Format: {projectRoot}/.env
func EnvPath(projectRoot string) string {
	return filepath.Join(projectRoot, EnvFile)
}

// MCPConfigPath returns the project-level MCP settings path.
// Format: {projectRoot}/.mcp.json
func MCPConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, MCPConfigFile)
}
