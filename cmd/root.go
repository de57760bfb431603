package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheetshop/sheetshop/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sheetshop",
	Short: "A paginated, filterable catalog served from a spreadsheet.",
	Long: `sheetshop reads a product catalog from a Google spreadsheet and serves it as
pages, filtered and shuffled listings, and single-item lookups, with every
sheet read fronted by a cache.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sheetshop.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

func setDefaults() {
	viper.SetDefault("sheets.spreadsheet_id", "")
	viper.SetDefault("sheets.tab", "Sheet1")
	viper.SetDefault("sheets.credentials_file", "")
	viper.SetDefault("sheets.credentials_json", "")
	viper.SetDefault("sheets.api_key", "")
	viper.SetDefault("sheets.endpoint", "https://sheets.googleapis.com/v4")
	viper.SetDefault("sheets.retry_max", 0)
	viper.SetDefault("sheets.timeout", "30s")

	viper.SetDefault("catalog.max_rows", 5000)
	viper.SetDefault("catalog.head_max", 200)
	viper.SetDefault("catalog.page_size", 24)
	viper.SetDefault("catalog.max_page_size", 100)

	viper.SetDefault("images.photohosts", []string{"photo.yupoo.com"})

	viper.SetDefault("rates.static", 0.128)
	viper.SetDefault("rates.url", "")
	viper.SetDefault("rates.path", "rates.EUR")
	viper.SetDefault("rates.ttl", "6h")

	viper.SetDefault("cache.ttl.count", "60s")
	viper.SetDefault("cache.ttl.meta", "5m")
	viper.SetDefault("cache.ttl.page", "2m")
	viper.SetDefault("cache.ttl.order", "10m")
	viper.SetDefault("cache.ttl.head", "5m")
	viper.SetDefault("cache.ttl.lookup", "5m")
	viper.SetDefault("cache.capacity.count", 50)
	viper.SetDefault("cache.capacity.meta", 50)
	viper.SetDefault("cache.capacity.page", 250)
	viper.SetDefault("cache.capacity.order", 100)
	viper.SetDefault("cache.capacity.head", 50)
	viper.SetDefault("cache.capacity.lookup", 50)
	viper.SetDefault("cache.recency", false)
	viper.SetDefault("cache.singleflight", true)

	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")

	viper.SetDefault("snapshot.dbpath", "sheetshop.sqlite")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".sheetshop")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.sheetshop.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
