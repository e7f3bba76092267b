package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/openbarra/chopp-pos/pkg/enums"
)

const (
	EnvPrefix = "chopp"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Sales SalesConfig
	Tabs  TabsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sales.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHOPP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CHOPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHOPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"CHOPP_DB_DRIVER" default:"sqlite"`
	// Path is the on-disk location of the embedded store (sqlite driver).
	Path string `envconfig:"CHOPP_DB_PATH" default:"chopp.db"`
	// DSN is required when the postgres driver is selected.
	DSN string `envconfig:"CHOPP_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CHOPP_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"CHOPP_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"CHOPP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHOPP_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"CHOPP_DB_AUTO_MIGRATE" default:"false"`
}

func (d DBConfig) validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("CHOPP_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("CHOPP_DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

type SalesConfig struct {
	// MissingPricePolicy decides whether a cart line without a configured
	// price is rejected or sold at zero.
	MissingPricePolicy string `envconfig:"CHOPP_SALES_MISSING_PRICE_POLICY" default:"reject"`
	// DefaultLowStockThresholdLiters seeds new stock records when the caller
	// does not supply a threshold.
	DefaultLowStockThresholdLiters float64 `envconfig:"CHOPP_SALES_DEFAULT_LOW_STOCK_THRESHOLD_LITERS" default:"5"`
	// CommitRetryAttempts bounds the optimistic retry loop around commit.
	CommitRetryAttempts uint64 `envconfig:"CHOPP_SALES_COMMIT_RETRY_ATTEMPTS" default:"3"`
}

func (s SalesConfig) validate() error {
	if _, err := enums.ParsePricePolicy(s.MissingPricePolicy); err != nil {
		return fmt.Errorf("CHOPP_SALES_MISSING_PRICE_POLICY: %w", err)
	}
	if s.DefaultLowStockThresholdLiters < 0 {
		return fmt.Errorf("CHOPP_SALES_DEFAULT_LOW_STOCK_THRESHOLD_LITERS must be >= 0")
	}
	return nil
}

// PricePolicy returns the parsed missing-price policy.
func (s SalesConfig) PricePolicy() enums.PricePolicy {
	policy, err := enums.ParsePricePolicy(s.MissingPricePolicy)
	if err != nil {
		return enums.PricePolicyReject
	}
	return policy
}

type TabsConfig struct {
	// ProvisionCount is how many numbered comandas the migrate binary seeds.
	ProvisionCount int `envconfig:"CHOPP_TABS_PROVISION_COUNT" default:"50"`
}
