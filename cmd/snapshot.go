package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheetshop/sheetshop/internal/utils"
	"github.com/sheetshop/sheetshop/pkg/storage"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Load the whole sheet and store it in the SQLite snapshot DB",
	Long: `Loads every row of the sheet (refusing sheets larger than catalog.max_rows),
stores the items keyed by row address and prints what was added, updated or
removed since the previous snapshot.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}

		dbPath := dbPathFlag(cmd)
		lock, err := utils.NewSnapshotLock(dbPath)
		if err != nil {
			return err
		}
		lockCtx := cmd.Context()
		if wait, _ := cmd.Flags().GetDuration("lock-timeout"); wait > 0 {
			var cancel context.CancelFunc
			lockCtx, cancel = context.WithTimeout(lockCtx, wait)
			defer cancel()
		}
		if err := lock.Acquire(lockCtx); err != nil {
			return err
		}
		defer lock.Release()

		items, err := e.ItemsFromSheet(cmd.Context())
		if err != nil {
			return err
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		changes, err := db.SaveSnapshot(cmd.Context(), items)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			for _, c := range changes {
				printChange(c)
			}
		}
		utils.Log.Infof("snapshot stored: %d items, %d changes", len(items), len(changes))
		if len(items) == 0 {
			fmt.Println("The sheet holds no items.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default from snapshot.dbpath)")
	snapshotCmd.Flags().BoolP("quiet", "q", false, "Do not print individual changes")
	snapshotCmd.Flags().Duration("lock-timeout", 0, "Give up if another snapshot holds the DB longer than this (0 waits)")
}
