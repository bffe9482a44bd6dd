package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/novaagent/nova/internal/types"
)

// SessionsCmd manages browser sessions on a running server.
func SessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage browser sessions on a running server",
	}
	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsCloseCmd())
	return cmd
}

func apiClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func apiURL(path string) string {
	return fmt.Sprintf("http://localhost:%d/api/v1%s", ServerConfig.Port, path)
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient().Get(apiURL("/sessions"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot reach server: %v\n", err)
				os.Exit(1)
			}
			defer resp.Body.Close()

			var list types.ListSessionsResponse
			if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
				fmt.Fprintf(os.Stderr, "Bad response: %v\n", err)
				os.Exit(1)
			}

			if len(list.Sessions) == 0 {
				fmt.Println("No live sessions.")
				return
			}
			for _, s := range list.Sessions {
				url := s.CurrentUrl
				if url == "" {
					url = "(blank)"
				}
				fmt.Printf("%s  %-10s  %3d actions  %s\n", s.SessionId, s.Driver, s.ActionsCount, url)
			}
		},
	}
}

func sessionsCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <session-id>",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req, err := http.NewRequest(http.MethodDelete, apiURL("/sessions/"+args[0]), bytes.NewReader(nil))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			resp, err := apiClient().Do(req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot reach server: %v\n", err)
				os.Exit(1)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				fmt.Fprintf(os.Stderr, "Session %s not found\n", args[0])
				os.Exit(1)
			}
			if resp.StatusCode != http.StatusOK {
				fmt.Fprintf(os.Stderr, "Close failed: %s\n", resp.Status)
				os.Exit(1)
			}
			fmt.Printf("Session %s closed\n", args[0])
		},
	}
}
