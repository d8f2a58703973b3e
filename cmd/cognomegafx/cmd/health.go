package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
	"github.com/Bharath-kolekar/cognomegafxg/internal/health"
)

var healthWatch bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend reachability",
	Long: `Probes the backend health endpoint once and reports the result.

With --watch the probe repeats on the configured interval and every
reachability transition is printed until interrupted.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().BoolVarP(&healthWatch, "watch", "w", false,
		"Keep polling and report reachability transitions")
}

func runHealth(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if healthWatch {
		return watchHealth(cmd, app)
	}

	status := app.client.Health(cmd.Context())
	printHealth(status)

	if !status.Reachable {
		return fmt.Errorf("backend is not reachable")
	}

	return nil
}

func watchHealth(cmd *cobra.Command, app *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The monitor's first probe reports the starting state, then only
	// transitions.
	monitor := health.New(app.client, app.cfg.Backend.HealthInterval(), app.log,
		func(status backend.HealthStatus) {
			printHealth(status)
		})
	defer monitor.Stop()

	monitor.Run(ctx)

	return nil
}

func printHealth(status backend.HealthStatus) {
	if !status.Reachable {
		fmt.Println("Backend: offline")

		return
	}

	if status.Version != "" {
		fmt.Printf("Backend: online (version %s)\n", status.Version)

		return
	}

	fmt.Println("Backend: online")
}
