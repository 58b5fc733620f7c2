package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/app"
	"github.com/abhisek/algoquest/internal/sshserver"
	"github.com/abhisek/algoquest/internal/store"
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the TUI over SSH",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := openEnvironment(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		addr := env.cfg.SSHAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		hostKey := env.cfg.SSHHostKey
		if hk, _ := cmd.Flags().GetString("host-key"); hk != "" {
			hostKey = hk
		}
		if hostKey == "" {
			dir, err := store.DataDir()
			if err != nil {
				return err
			}
			hostKey = filepath.Join(dir, "ssh_host_ed25519")
		}

		opts := app.Options{
			Deps:   env.deps(ctx),
			Logger: env.logger,
		}
		srv, err := sshserver.New(addr, hostKey, opts, env.logger)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	sshCmd.Flags().String("addr", "", "Listen address (default ALGOQUEST_SSH_ADDR or 127.0.0.1:2222)")
	sshCmd.Flags().String("host-key", "", "Host key path (default: generated in the data dir)")
}
