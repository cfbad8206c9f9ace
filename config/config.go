package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/sunfresh/catalog/internal/core/recommend"
)

const configFileEnvName = "CATALOG_CONFIG_FILE"

const (
	SourceFile = "file"
	SourceSQL  = "sql"
)

type catalogSource struct {
	Source       string `mapstructure:"source"`
	ProductsPath string `mapstructure:"products_path"`
	StockPath    string `mapstructure:"stock_path"`
	SQLDSN       string `mapstructure:"sql_dsn"`
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	ClientEventsTopic  string   `mapstructure:"client_events_topic"`
}

type Config struct {
	LogLevel       slog.Level       `mapstructure:"log_level"`
	HTTPServerAddr string           `mapstructure:"http_server_addr"`
	Catalog        catalogSource    `mapstructure:"catalog"`
	Broker         broker           `mapstructure:"broker"`
	Recommend      recommend.Config `mapstructure:"recommend"`
}

func Load() Config {
	cfg, err := parse(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func parse(filepath string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	// The text unmarshaller hook lets symbolic values like
	// log_level: info decode into slog.Level.
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = SourceFile
	}

	return cfg, nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Catalog:
	Source=%q
	ProductsPath=%q
	StockPath=%q

	Broker:
	Enabled=%v
	SeedBrokers=%v
	SchemaRegistryURLs=%v
	ClientEventsTopic=%q
`
	fmt.Printf(template,
		c.LogLevel,
		c.HTTPServerAddr,
		c.Catalog.Source,
		c.Catalog.ProductsPath,
		c.Catalog.StockPath,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.ClientEventsTopic,
	)
}
