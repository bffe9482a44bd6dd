package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/novaagent/nova/internal/db"
	"github.com/novaagent/nova/internal/defaults"
	"github.com/novaagent/nova/internal/keyring"
)

// DoctorCmd diagnoses common installation problems.
func DoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and diagnose issues",
		Long: `Run diagnostics on your Nova installation.

Checks:
  - Data directory
  - Database status
  - Browser availability
  - Vision API key
  - Server reachability`,
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func runDoctor() {
	fmt.Println("Nova Doctor")
	fmt.Println("===========")
	fmt.Println()

	var results []checkResult
	results = append(results, checkDataDir())
	results = append(results, checkDatabase())
	results = append(results, checkBrowser())
	results = append(results, checkVisionKey())
	results = append(results, checkServer())

	errors := 0
	for _, r := range results {
		symbol := "✓"
		switch r.status {
		case "warn":
			symbol = "!"
		case "error":
			symbol = "✗"
			errors++
		}
		fmt.Printf("%s %-16s %s\n", symbol, r.name, r.message)
	}

	fmt.Println()
	if errors > 0 {
		fmt.Printf("%d problem(s) found.\n", errors)
		os.Exit(1)
	}
	fmt.Println("All checks passed.")
}

func checkDataDir() checkResult {
	dir, err := defaults.EnsureDataDir()
	if err != nil {
		return checkResult{"data dir", "error", err.Error()}
	}
	return checkResult{"data dir", "ok", dir}
}

func checkDatabase() checkResult {
	path := ServerConfig.Database.Path
	if path == "" {
		dataDir, err := defaults.DataDir()
		if err != nil {
			return checkResult{"database", "error", err.Error()}
		}
		path = filepath.Join(dataDir, "data", "nova.db")
	}

	store, err := db.NewSQLite(path)
	if err != nil {
		return checkResult{"database", "error", err.Error()}
	}
	defer store.Close()

	if _, err := store.ListSessions(1); err != nil {
		return checkResult{"database", "error", err.Error()}
	}
	return checkResult{"database", "ok", path}
}

func checkBrowser() checkResult {
	if ServerConfig.Browser.Driver == "cdp" {
		for _, bin := range []string{"google-chrome", "chromium", "chromium-browser", "chrome"} {
			if path, err := exec.LookPath(bin); err == nil {
				return checkResult{"browser", "ok", path}
			}
		}
		return checkResult{"browser", "error", "no Chrome binary found on PATH (required by the cdp driver)"}
	}
	// The playwright driver downloads its own Chromium on first use.
	return checkResult{"browser", "ok", "playwright driver (Chromium auto-installed on first session)"}
}

func checkVisionKey() checkResult {
	if ServerConfig.Vision.APIKey != "" {
		return checkResult{"vision key", "ok", "configured"}
	}
	if key, err := keyring.GetVisionKey(); err == nil && key != "" {
		return checkResult{"vision key", "ok", "found in keychain"}
	}
	return checkResult{"vision key", "warn", "not set - analysis disabled until a key is provided"}
}

func checkServer() checkResult {
	client := &http.Client{Timeout: 3 * time.Second}
	url := fmt.Sprintf("http://localhost:%d/health", ServerConfig.Port)
	resp, err := client.Get(url)
	if err != nil {
		return checkResult{"server", "warn", "not running (start with 'nova serve')"}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return checkResult{"server", "error", "responded with " + resp.Status}
	}
	return checkResult{"server", "ok", "running on port " + fmt.Sprint(ServerConfig.Port)}
}
