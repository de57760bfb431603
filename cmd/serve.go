package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sheetshop/sheetshop/internal/server"
	"github.com/sheetshop/sheetshop/internal/utils"
	"github.com/sheetshop/sheetshop/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}

		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("server.listen")
		}

		var db *storage.DB
		if withDB, _ := cmd.Flags().GetBool("with-db"); withDB {
			db, err = storage.Open(dbPathFlag(cmd))
			if err != nil {
				return err
			}
			defer db.Close()
		}

		utils.Log.Debugf("cache singleflight=%t recency=%t", viper.GetBool("cache.singleflight"), viper.GetBool("cache.recency"))
		return server.New(e, db, viper.GetString("server.username"), viper.GetString("server.password")).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from server.listen)")
	serveCmd.Flags().Bool("with-db", false, "Expose snapshot stats and changes from the SQLite DB")
	serveCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default from snapshot.dbpath)")
}
