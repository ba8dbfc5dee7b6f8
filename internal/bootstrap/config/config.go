package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/errs"
)

// PlaceholderAdminPassword ships as the default so a fresh checkout runs,
// but operators are expected to override it.
const PlaceholderAdminPassword = "meta-admin"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Quality  QualityConfig  `mapstructure:"quality"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AdminConfig struct {
	Password string `mapstructure:"password"`
}

type QualityConfig struct {
	Branches             []string `mapstructure:"branches"`
	Dishes               []string `mapstructure:"dishes"`
	DuplicateWindowHours int      `mapstructure:"duplicate_window_hours"`
	MinBranchSamples     int      `mapstructure:"min_branch_samples"`
	MinChefSamples       int      `mapstructure:"min_chef_samples"`
	SnapshotTTLSeconds   int      `mapstructure:"snapshot_ttl_seconds"`
	InsightMaxRows       int      `mapstructure:"insight_max_rows"`
}

// SheetsConfig identifies the mirror spreadsheet. Spreadsheet accepts a full
// URL or a bare spreadsheet key. Empty spreadsheet or credentials file means
// mirroring is disabled.
type SheetsConfig struct {
	Spreadsheet     string `mapstructure:"spreadsheet"`
	Worksheet       string `mapstructure:"worksheet"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// OpenAIConfig enables the insight assistant. Empty APIKey disables it.
type OpenAIConfig struct {
	APIKey       string `mapstructure:"api_key"`
	Organization string `mapstructure:"organization"`
	Project      string `mapstructure:"project"`
	Model        string `mapstructure:"model"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(logCtx, v)

	v.SetEnvPrefix("PC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := validate(cfg); err != nil {
		return Config{}, errs.Wrap(err, "validate config")
	}

	if cfg.Admin.Password == PlaceholderAdminPassword {
		logging.Warn(logCtx, "admin.password is the shipped placeholder, override it before exposing the dashboard")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Int("branches", len(cfg.Quality.Branches)),
		slog.Int("dishes", len(cfg.Quality.Dishes)),
		slog.Bool("sheets_mirror", cfg.Sheets.Spreadsheet != "" && cfg.Sheets.CredentialsFile != ""),
		slog.Bool("insight_assistant", cfg.OpenAI.APIKey != ""),
	)

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if len(cfg.Quality.Branches) == 0 {
		return errors.New("quality.branches is required")
	}
	if len(cfg.Quality.Dishes) == 0 {
		return errors.New("quality.dishes is required")
	}
	if cfg.Quality.MinBranchSamples < 1 {
		return fmt.Errorf("quality.min_branch_samples must be positive, got %d", cfg.Quality.MinBranchSamples)
	}
	if cfg.Quality.MinChefSamples < 1 {
		return fmt.Errorf("quality.min_chef_samples must be positive, got %d", cfg.Quality.MinChefSamples)
	}
	return nil
}

func setDefaults(ctx context.Context, v *viper.Viper) {
	if ctx == nil {
		return
	}

	v.SetDefault("app.name", "platecheck")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/platecheck.sqlite")

	v.SetDefault("admin.password", PlaceholderAdminPassword)

	v.SetDefault("quality.branches", []string{"תל אביב", "חיפה", "ירושלים", "ראשון לציון"})
	v.SetDefault("quality.dishes", []string{"פאד תאי", "פאד קרפאו", "קארי ירוק", "קארי אדום", "מרק טום יאם", "אורז מטוגן"})
	v.SetDefault("quality.duplicate_window_hours", 12)
	v.SetDefault("quality.min_branch_samples", 3)
	v.SetDefault("quality.min_chef_samples", 5)
	v.SetDefault("quality.snapshot_ttl_seconds", 15)
	v.SetDefault("quality.insight_max_rows", 400)

	v.SetDefault("sheets.worksheet", "sheet1")

	v.SetDefault("openai.model", "gpt-4o-mini")
}
