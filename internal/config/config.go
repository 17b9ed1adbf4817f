// README: Config loader backed by viper: defaults, optional swiftcab.yaml, SWIFTCAB_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SWIFTCAB"

type LogConfig struct {
	Level  string
	Output string
}

type AIConfig struct {
	GeminiKey     string
	Model         string
	MinConfidence float64
	// User is the quota account charged for AI extraction calls.
	User string
}

type MapsConfig struct {
	APIKey   string
	Region   string
	Language string
}

type BookingConfig struct {
	Timezone    string
	Currency    string
	MaxAttempts int
}

type Config struct {
	Env  string
	Log  LogConfig
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr       string
		SessionTTL time.Duration
	}
	AI      AIConfig
	Maps    MapsConfig
	Booking BookingConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_OUTPUT", "stderr")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("AI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_MIN_CONFIDENCE", 0.6)
	v.SetDefault("AI_USER", "local")
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("MAPS_REGION", "IN")
	v.SetDefault("MAPS_LANGUAGE", "en")
	v.SetDefault("TIMEZONE", "Asia/Kolkata")
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("MAX_ATTEMPTS", 0)
}

// Load reads configFile when given, otherwise an optional swiftcab.yaml in
// the working directory, then applies environment overrides.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Provider keys keep their conventional unprefixed names.
	_ = v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("GOOGLE_MAPS_API_KEY", "GOOGLE_MAPS_API_KEY")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("swiftcab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	cfg.Env = v.GetString("ENV")
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Output = v.GetString("LOG_OUTPUT")
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	cfg.DB.DSN = v.GetString("DB_DSN")
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.SessionTTL = v.GetDuration("SESSION_TTL")
	cfg.AI.GeminiKey = v.GetString("GEMINI_API_KEY")
	cfg.AI.Model = v.GetString("AI_MODEL")
	cfg.AI.MinConfidence = v.GetFloat64("AI_MIN_CONFIDENCE")
	cfg.AI.User = v.GetString("AI_USER")
	cfg.Maps.APIKey = v.GetString("GOOGLE_MAPS_API_KEY")
	cfg.Maps.Region = v.GetString("MAPS_REGION")
	cfg.Maps.Language = v.GetString("MAPS_LANGUAGE")
	cfg.Booking.Timezone = v.GetString("TIMEZONE")
	cfg.Booking.Currency = strings.ToUpper(v.GetString("CURRENCY"))
	cfg.Booking.MaxAttempts = v.GetInt("MAX_ATTEMPTS")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.AI.MinConfidence < 0 || c.AI.MinConfidence > 1 {
		return fmt.Errorf("config: AI_MIN_CONFIDENCE must be within [0, 1], got %v", c.AI.MinConfidence)
	}
	if c.Booking.MaxAttempts < 0 {
		return fmt.Errorf("config: MAX_ATTEMPTS must not be negative, got %d", c.Booking.MaxAttempts)
	}
	if c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.Redis.SessionTTL)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the booking timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Booking.Timezone, err)
	}
	return loc, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
