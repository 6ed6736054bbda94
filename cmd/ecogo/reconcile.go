package main

import (
	"context"
	"fmt"

	"ecogo/internal/logger"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Finalize appliances that expired while the server was down",
	Long: `Opens every stored user once, which finalizes overdue appliances, purges
expired alerts and writes the snapshots back. Meant for cron after an outage
when the server itself is not going to start soon.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Get(cfg.LogLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	n, err := a.sessions.ReconcileAll(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d user(s)\n", n)
	return err
}
