package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the mxvoiced daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if client, err := ctx.dialClient(); err == nil {
				_ = client.Close()
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			launch := exec.Command(exe)
			if ctx.configFlag != nil {
				if path := strings.TrimSpace(*ctx.configFlag); path != "" {
					launch.Args = append(launch.Args, "--config", path)
				}
			}
			launch.Stdout = nil
			launch.Stderr = nil
			if err := launch.Start(); err != nil {
				return fmt.Errorf("launch daemon: %w", err)
			}
			_ = launch.Process.Release()
			fmt.Fprintln(stdout, "Daemon not running, launching...")

			if err := waitForSocket(ctx, 10*time.Second); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon started")
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the mxvoiced daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			err := ctx.withClient(func(client *ipc.Client) error {
				_, err := client.Stop()
				// The daemon tears the socket down while handling Stop, so a
				// dropped connection here still means it is going away.
				if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
					return nil
				}
				return err
			})
			if err != nil {
				if strings.Contains(err.Error(), "connect to daemon") {
					fmt.Fprintln(stdout, "Daemon is not running")
					return nil
				}
				return err
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	var statusJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if statusJSON {
					return printJSON(cmd, status)
				}

				stdout := cmd.OutOrStdout()
				rows := [][2]string{
					{"Running", yesNo(status.Running)},
					{"Version", status.Version},
					{"PID", fmt.Sprintf("%d", status.PID)},
					{"Active profile", status.ActiveProfile},
					{"Profiles", strings.Join(status.Profiles, ", ")},
					{"Library songs", fmt.Sprintf("%d", status.LibraryCount)},
					{"Database", status.DatabasePath},
					{"Socket", status.SocketPath},
					{"Device monitor", yesNo(status.DeviceMonitor)},
					{"Update checker", yesNo(status.UpdateChecker)},
				}
				fmt.Fprintln(stdout, renderPairs("Field", "Value", rows))
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status as JSON")

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func daemonExecutable() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	candidate := filepath.Join(filepath.Dir(self), "mxvoiced")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	path, err := exec.LookPath("mxvoiced")
	if err != nil {
		return "", fmt.Errorf("locate mxvoiced: %w", err)
	}
	return path, nil
}

func waitForSocket(ctx *commandContext, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ctx.dialClient()
		if err == nil {
			_ = client.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not become ready within %s", timeout)
}
