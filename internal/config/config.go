package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/rightcount/internal/util"
)

// Scanner holds configuration for the client-side scanner (backfill and
// watch modes).
type Scanner struct {
	ProjectsDir   string `envconfig:"CLAUDE_PROJECTS"`
	DataDir       string `envconfig:"RIGHTCOUNT_DATA_DIR"`
	APIURL        string `envconfig:"RIGHTCOUNT_API_URL"`
	Secret        string `envconfig:"RIGHTCOUNT_SECRET"`
	WorkstationID string `envconfig:"WORKSTATION_ID"`
	CheckInterval int    `envconfig:"CHECK_INTERVAL" default:"2"`

	// CountRole selects which message role increments the per-day total:
	// "assistant" for the pattern tracker, "user" for prompt-side counting.
	CountRole string `envconfig:"COUNT_ROLE" default:"assistant"`
}

// Server holds configuration for the counting service.
type Server struct {
	Port         int    `envconfig:"PORT" default:"3003"`
	DatabasePath string `envconfig:"RIGHTCOUNT_DATABASE_PATH"`
	Secret       string `envconfig:"RIGHTCOUNT_SECRET"`
}

// LoadScanner loads scanner configuration from environment variables and
// fills in platform defaults for anything unset.
func LoadScanner() (*Scanner, error) {
	var cfg Scanner
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.ProjectsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.ProjectsDir = filepath.Join(home, ".claude", "projects")
	}

	if cfg.DataDir == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dataDir
	}

	if cfg.WorkstationID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to determine workstation id: %w", err)
		}
		cfg.WorkstationID = hostname
	}

	if cfg.CheckInterval < 1 {
		cfg.CheckInterval = 1
	}

	return &cfg, nil
}

// LoadServer loads counting service configuration from environment
// variables. The database defaults to counts.db in the data directory.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.DatabasePath == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DatabasePath = filepath.Join(dataDir, "counts.db")
	}

	return &cfg, nil
}

// LedgerPath returns the location of the processed-ids ledger.
func (c *Scanner) LedgerPath() string {
	return filepath.Join(c.DataDir, "processed_ids.json")
}

// CountsPath returns the location of the local daily counts file.
func (c *Scanner) CountsPath() string {
	return filepath.Join(c.DataDir, "daily_counts.json")
}

// UploadLogPath returns the location of the upload attempt log.
func (c *Scanner) UploadLogPath() string {
	return filepath.Join(c.DataDir, "uploads.log")
}

// PatternsPath returns the location of the optional pattern file.
func (c *Scanner) PatternsPath() string {
	return filepath.Join(c.DataDir, "patterns.toml")
}
