package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/novaagent/nova/internal/logging"
	"github.com/novaagent/nova/internal/server"
)

// ServeCmd starts the web server.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Nova server",
		Long:  `Start the Nova web server, API, and websocket event stream.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress request logging")
	return cmd
}

// runServe starts the server and blocks until interrupted.
func runServe() {
	if quiet {
		logging.Disable()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	opts := server.ServerOptions{Quiet: quiet, ConfigPath: cfgFile}
	if err := server.Run(ctx, *ServerConfig, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
