package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facedetect"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Face Attendance API server.
Clients create a session, register students with one portrait each and
upload class photos to get the present and absent lists.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
	serveCmd.Flags().Bool("no-wait", false, "Start without waiting for the face service to become ready")
}

// applyServeFlags lets explicit flags win over environment configuration.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}
}

// newPublisher connects to MQTT when a broker is configured.
func newPublisher(cfg *config.Config) (notify.Publisher, error) {
	if !cfg.MQTT.Enabled() {
		return notify.Nop{}, nil
	}
	publisher, err := notify.NewMQTTPublisher(cfg.MQTT)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Publishing attendance to MQTT %s (topic prefix %q)\n", cfg.MQTT.Broker, cfg.MQTT.TopicPrefix)
	return publisher, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyServeFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	opts, err := attendanceOptions(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	faceClient := facedetect.NewClient(cfg.Face.ServiceURL, cfg.Face.MinDetScore)
	if !mustGetBool(cmd, "no-wait") {
		if err := waitForFaceService(ctx, faceClient, cfg.Face.ReadyTimeout, false); err != nil {
			fmt.Printf("Warning: %v\n", err)
			fmt.Printf("Registration and attendance will answer 503 until the face service is ready\n")
		}
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up notifications: %w", err)
	}

	sessions := attendance.NewManager(faceClient, opts, cfg.Web.SessionTTL)
	go sessions.Run(ctx, constants.SessionSweepInterval)

	server := web.NewServer(cfg, sessions, faceClient, publisher)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Matching with %s distance, threshold %.2f\n", opts.Match.Metric, opts.Match.Threshold)
	fmt.Printf("Starting Face Attendance API on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
