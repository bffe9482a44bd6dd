package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// healthReport is written to disk after every check.
type healthReport struct {
	Timestamp      string  `json:"timestamp"`
	URL            string  `json:"url"`
	Status         string  `json:"status"`
	HTTPStatus     int     `json:"http_status,omitempty"`
	ResponseTimeMs float64 `json:"response_time_ms,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// HealthcheckCmd probes a running server and writes a JSON report.
func HealthcheckCmd() *cobra.Command {
	var timeout time.Duration
	var noReport bool

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check that the server is up and responding",
		Long: `Probe the /health endpoint of a running Nova server.

Prints the result and writes a health_report_<timestamp>.json file to
the current directory. Exits non-zero when the server is unhealthy,
which makes the command usable from cron or CI.`,
		Run: func(cmd *cobra.Command, args []string) {
			report := runHealthcheck(timeout)

			if !noReport {
				writeReport(report)
			}
			if report.Status != "healthy" {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "skip writing the JSON report file")
	return cmd
}

func runHealthcheck(timeout time.Duration) *healthReport {
	url := fmt.Sprintf("http://localhost:%d/health", ServerConfig.Port)
	report := &healthReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       url,
	}

	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Get(url)
	elapsed := time.Since(start)

	if err != nil {
		report.Status = "unreachable"
		report.Error = err.Error()
		fmt.Printf("✗ Server unreachable: %v\n", err)
		return report
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	report.HTTPStatus = resp.StatusCode
	report.ResponseTimeMs = float64(elapsed.Microseconds()) / 1000.0

	if resp.StatusCode == http.StatusOK {
		report.Status = "healthy"
		fmt.Printf("✓ Server healthy (%d, %.1fms)\n", resp.StatusCode, report.ResponseTimeMs)
	} else {
		report.Status = "unhealthy"
		report.Error = fmt.Sprintf("unexpected status: %s", resp.Status)
		fmt.Printf("✗ Server unhealthy: %s (%.1fms)\n", resp.Status, report.ResponseTimeMs)
	}
	return report
}

func writeReport(report *healthReport) {
	name := fmt.Sprintf("health_report_%s.json", time.Now().UTC().Format("20060102T150405Z"))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode report: %v\n", err)
		return
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
		return
	}
	fmt.Printf("Report written to %s\n", name)
}
