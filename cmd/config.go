package cmd

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/sheetshop/sheetshop/internal/utils"
	"github.com/sheetshop/sheetshop/pkg/engine"
	"github.com/sheetshop/sheetshop/pkg/images"
	"github.com/sheetshop/sheetshop/pkg/rates"
	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// newEngine builds the query engine from the loaded configuration. Missing
// sheet id or credentials fail here, before any request is made.
func newEngine() (*engine.Engine, error) {
	// retryablehttp logs every request; only worth it when debugging.
	var httpLog retryablehttp.Logger
	if utils.Log.IsLevelEnabled(logrus.DebugLevel) {
		httpLog = utils.Component("sheets")
	}

	client, err := sheets.New(sheets.Config{
		SpreadsheetID:   viper.GetString("sheets.spreadsheet_id"),
		CredentialsFile: viper.GetString("sheets.credentials_file"),
		CredentialsJSON: viper.GetString("sheets.credentials_json"),
		APIKey:          viper.GetString("sheets.api_key"),
		Endpoint:        viper.GetString("sheets.endpoint"),
		RetryMax:        viper.GetInt("sheets.retry_max"),
		Timeout:         viper.GetDuration("sheets.timeout"),
		Logger:          httpLog,
	})
	if err != nil {
		return nil, err
	}

	provider, err := newRates()
	if err != nil {
		return nil, err
	}

	return engine.New(engine.Config{
		Reader:      client,
		Tab:         viper.GetString("sheets.tab"),
		Rates:       provider,
		Images:      images.NewNormalizer(viper.GetStringSlice("images.photohosts")...),
		Caches:      engine.NewCaches(cacheConfig(), nil),
		Log:         utils.Component("engine"),
		MaxRows:     viper.GetInt("catalog.max_rows"),
		HeadMax:     viper.GetInt("catalog.head_max"),
		PageSize:    viper.GetInt("catalog.page_size"),
		MaxPageSize: viper.GetInt("catalog.max_page_size"),
	})
}

// newRates prefers the HTTP provider when rates.url is set, with rates.static
// as its fallback.
func newRates() (rates.Provider, error) {
	static := viper.GetFloat64("rates.static")
	url := viper.GetString("rates.url")
	if url == "" {
		return rates.Static(static), nil
	}
	return rates.NewHTTP(rates.HTTPConfig{
		URL:      url,
		Path:     viper.GetString("rates.path"),
		TTL:      viper.GetDuration("rates.ttl"),
		Fallback: static,
	})
}

func cacheConfig() engine.CacheConfig {
	return engine.CacheConfig{
		CountTTL:     viper.GetDuration("cache.ttl.count"),
		MetaTTL:      viper.GetDuration("cache.ttl.meta"),
		PageTTL:      viper.GetDuration("cache.ttl.page"),
		OrderTTL:     viper.GetDuration("cache.ttl.order"),
		HeadTTL:      viper.GetDuration("cache.ttl.head"),
		LookupTTL:    viper.GetDuration("cache.ttl.lookup"),
		CountCap:     viper.GetInt("cache.capacity.count"),
		MetaCap:      viper.GetInt("cache.capacity.meta"),
		PageCap:      viper.GetInt("cache.capacity.page"),
		OrderCap:     viper.GetInt("cache.capacity.order"),
		HeadCap:      viper.GetInt("cache.capacity.head"),
		LookupCap:    viper.GetInt("cache.capacity.lookup"),
		Recency:      viper.GetBool("cache.recency"),
		SingleFlight: viper.GetBool("cache.singleflight"),
	}
}
