package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	appErrors "nlreminder/internal/pkg/errors"
)

const (
	defaultPort           = 8080
	defaultSQLitePath     = "reminder.db"
	defaultUTCOffsetHours = 9
	defaultRequestTimeout = 10 * time.Second
	defaultWindow         = time.Minute
	defaultDeliveryCron   = "0 * * * * *"
	maxUTCOffsetHours     = 14

	// cadenceSamples is how many consecutive DELIVERY_CRON firings are
	// inspected when comparing the cadence with DELIVERY_WINDOW.
	cadenceSamples = 64
)

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config is the explicit runtime configuration handed to every component.
type Config struct {
	ChannelAccessToken string
	ChannelSecret      string
	LineAPIEndpoint    string

	Port        int
	DatabaseURL string
	SQLitePath  string

	UTCOffsetHours int
	RequestTimeout time.Duration

	DeliveryWindow   time.Duration
	DeliveryCatchUp  bool
	DeliveryCron     string
	SchedulerEnabled bool
	// DeliveryToken guards POST /tasks/deliver. The route is mounted only
	// when the in-process scheduler is disabled and a token is set.
	DeliveryToken string

	LogLevel   string
	LogConsole bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present. Load only reports malformed values;
// call Validate for required settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ChannelAccessToken: os.Getenv("CHANNEL_ACCESS_TOKEN"),
		ChannelSecret:      os.Getenv("CHANNEL_SECRET"),
		LineAPIEndpoint:    os.Getenv("LINE_API_ENDPOINT"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         getenvDefault("SQLITE_PATH", defaultSQLitePath),
		DeliveryCron:       getenvDefault("DELIVERY_CRON", defaultDeliveryCron),
		DeliveryToken:      os.Getenv("DELIVERY_TRIGGER_TOKEN"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
	}
	if cfg.ChannelAccessToken == "" {
		cfg.ChannelAccessToken = os.Getenv("LINE_ACCESS_TOKEN")
	}

	var err error
	if cfg.Port, err = intEnv("PORT", defaultPort); err != nil {
		return nil, err
	}
	if cfg.UTCOffsetHours, err = intEnv("LOCAL_UTC_OFFSET_HOURS", defaultUTCOffsetHours); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.DeliveryWindow, err = durationEnv("DELIVERY_WINDOW", defaultWindow); err != nil {
		return nil, err
	}
	if cfg.DeliveryCatchUp, err = boolEnv("DELIVERY_CATCH_UP", false); err != nil {
		return nil, err
	}
	if cfg.SchedulerEnabled, err = boolEnv("SCHEDULER_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.LogConsole, err = boolEnv("LOG_CONSOLE", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. Every failure wraps
// ErrConfiguration so callers can fail fast before doing any work.
func (c *Config) Validate() error {
	var problems []string

	if c.ChannelAccessToken == "" {
		problems = append(problems, "CHANNEL_ACCESS_TOKEN is not set")
	}
	if c.ChannelSecret == "" {
		problems = append(problems, "CHANNEL_SECRET is not set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d is out of range", c.Port))
	}
	if c.UTCOffsetHours < -maxUTCOffsetHours || c.UTCOffsetHours > maxUTCOffsetHours {
		problems = append(problems, fmt.Sprintf("LOCAL_UTC_OFFSET_HOURS %d is out of range", c.UTCOffsetHours))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}
	if c.DeliveryWindow <= 0 {
		problems = append(problems, "DELIVERY_WINDOW must be positive")
	}
	if c.DatabaseURL == "" && c.SQLitePath == "" {
		problems = append(problems, "either DATABASE_URL or SQLITE_PATH must be set")
	}
	schedule, err := cronParser.Parse(c.DeliveryCron)
	if err != nil {
		problems = append(problems, fmt.Sprintf("DELIVERY_CRON %q: %v", c.DeliveryCron, err))
	} else if c.SchedulerEnabled && c.DeliveryWindow > 0 {
		// A window shorter than the cadence leaves due times no run ever covers.
		if gap := longestGap(schedule, time.Now().UTC()); c.DeliveryWindow < gap {
			problems = append(problems, fmt.Sprintf("DELIVERY_WINDOW %s is shorter than the DELIVERY_CRON interval %s", c.DeliveryWindow, gap))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", appErrors.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the fixed local timezone used for parsing and display.
func (c *Config) Location() *time.Location {
	offset := c.UTCOffsetHours * int(time.Hour/time.Second)
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), offset)
}

// longestGap returns the largest interval between consecutive firings of
// schedule after from.
func longestGap(schedule cron.Schedule, from time.Time) time.Duration {
	var longest time.Duration
	prev := schedule.Next(from)
	for i := 0; i < cadenceSamples && !prev.IsZero(); i++ {
		next := schedule.Next(prev)
		if next.IsZero() {
			break
		}
		if gap := next.Sub(prev); gap > longest {
			longest = gap
		}
		prev = next
	}
	return longest
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func intEnv(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", appErrors.ErrConfiguration, key, value)
	}
	return parsed, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", appErrors.ErrConfiguration, key, value)
	}
	return parsed, nil
}

func boolEnv(key string, def bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", appErrors.ErrConfiguration, key, value)
	}
	return parsed, nil
}
