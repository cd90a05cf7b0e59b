// Package main provides the yap CLI.
package main

import (
	"github.com/joho/godotenv"

	"github.com/dotcommander/yap/internal/cmd"
	"github.com/dotcommander/yap/internal/config"
)

// Build vars.
var (
	//nolint: gochecknoglobals
	Version = ""
	//nolint: gochecknoglobals
	CommitSHA = ""
)

func main() {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	cfg, cfgErr := config.Load()
	cmd.Execute(cmd.BuildInfo{Version: Version, CommitSHA: CommitSHA}, cfg, cfgErr)
}
