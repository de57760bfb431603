package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sheetshop/sheetshop/pkg/storage"
)

// dbPathFlag returns --dbpath when given, otherwise snapshot.dbpath.
func dbPathFlag(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("dbpath"); p != "" {
		return p
	}
	return viper.GetString("snapshot.dbpath")
}

func openExistingDB(cmd *cobra.Command) (*storage.DB, error) {
	dbPath := dbPathFlag(cmd)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %s (run 'sheetshop snapshot' first)", dbPath)
	}
	return storage.Open(dbPath)
}

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the snapshot database",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := dbPathFlag(cmd)
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, dbPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-seller statistics about the stored snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SELLER\tITEMS\tBRANDS\tPRICED\t")

		var totalItems, totalPriced int
		for _, s := range stats {
			seller := s.Seller
			if seller == "" {
				seller = "(none)"
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", seller, s.ItemCount, s.Brands, s.Priced)
			totalItems += s.ItemCount
			totalPriced += s.Priced
		}

		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t \t%d\t\n", totalItems, totalPriced)

		w.Flush()

		return nil
	},
}

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent catalog changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		db, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()
		changes, err := db.ListRecentChanges(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, c := range changes {
			printChange(c)
		}
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List items stored in the last snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		seller, _ := cmd.Flags().GetString("seller")
		brand, _ := cmd.Flags().GetString("brand")
		limit, _ := cmd.Flags().GetInt("limit")
		sinceStr, _ := cmd.Flags().GetString("since")

		opts := storage.ListOptions{Seller: seller, Brand: brand, Limit: limit}
		if sinceStr != "" {
			since, err := time.Parse(time.RFC3339, sinceStr)
			if err != nil {
				return fmt.Errorf("invalid --since (want RFC3339): %w", err)
			}
			opts.Since = since
		}

		db, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.ListItems(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

func printChange(c storage.Change) {
	ts := c.OccurredAt.Format("2006-01-02 15:04:05")
	fmt.Printf("%s  %-7s  row=%-5d  %s  %s\n", ts, c.ChangeType, c.RowAddress, c.Slug, c.Seller)
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(statsCmd)
	dbCmd.AddCommand(changesCmd)
	dbCmd.AddCommand(itemsCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default from snapshot.dbpath)")
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
	itemsCmd.Flags().String("seller", "", "Only items of this seller")
	itemsCmd.Flags().String("brand", "", "Only items of this brand")
	itemsCmd.Flags().String("since", "", "Only items seen since this RFC3339 time")
	itemsCmd.Flags().Int("limit", 0, "Maximum number of items (0 means all)")
}
