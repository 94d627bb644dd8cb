package config

import (
	"errors"
	"testing"
	"time"

	appErrors "nlreminder/internal/pkg/errors"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("CHANNEL_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.UTCOffsetHours != 9 {
		t.Errorf("UTCOffsetHours = %d, want 9", cfg.UTCOffsetHours)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.DeliveryWindow != time.Minute {
		t.Errorf("DeliveryWindow = %v, want 1m", cfg.DeliveryWindow)
	}
	if cfg.DeliveryCatchUp {
		t.Error("DeliveryCatchUp should default to false")
	}
	if !cfg.SchedulerEnabled {
		t.Error("SchedulerEnabled should default to true")
	}
	if cfg.SQLitePath != "reminder.db" {
		t.Errorf("SQLitePath = %q, want reminder.db", cfg.SQLitePath)
	}
}

func TestLoadFallsBackToLineAccessToken(t *testing.T) {
	t.Setenv("CHANNEL_ACCESS_TOKEN", "")
	t.Setenv("LINE_ACCESS_TOKEN", "legacy")
	t.Setenv("CHANNEL_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ChannelAccessToken != "legacy" {
		t.Fatalf("ChannelAccessToken = %q, want legacy", cfg.ChannelAccessToken)
	}
}

func TestValidateMissingAccessToken(t *testing.T) {
	t.Setenv("CHANNEL_ACCESS_TOKEN", "")
	t.Setenv("LINE_ACCESS_TOKEN", "")
	t.Setenv("CHANNEL_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	err = cfg.Validate()
	if !errors.Is(err, appErrors.ErrConfiguration) {
		t.Fatalf("Validate error = %v, want ErrConfiguration", err)
	}
}

func TestLoadMalformedValues(t *testing.T) {
	cases := map[string]string{
		"PORT":              "eighty",
		"REQUEST_TIMEOUT":   "ten",
		"DELIVERY_WINDOW":   "1 minute",
		"DELIVERY_CATCH_UP": "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); !errors.Is(err, appErrors.ErrConfiguration) {
				t.Fatalf("Load error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"offset":  func(c *Config) { c.UTCOffsetHours = 20 },
		"timeout": func(c *Config) { c.RequestTimeout = 0 },
		"window":  func(c *Config) { c.DeliveryWindow = -time.Second },
		"cron":    func(c *Config) { c.DeliveryCron = "every minute" },
		"secret":  func(c *Config) { c.ChannelSecret = "" },
		"window_shorter_than_cadence": func(c *Config) {
			c.DeliveryCron = "0 */5 * * * *"
			c.DeliveryWindow = time.Minute
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, appErrors.ErrConfiguration) {
				t.Fatalf("Validate error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestValidateWindowCoversCadence(t *testing.T) {
	cases := []struct {
		name      string
		cron      string
		window    time.Duration
		scheduler bool
	}{
		{"every_minute_default_window", "0 * * * * *", time.Minute, true},
		{"five_minutes_matching_window", "0 */5 * * * *", 5 * time.Minute, true},
		{"every_descriptor", "@every 30s", time.Minute, true},
		{"external_cadence_ignores_cron", "0 */5 * * * *", time.Minute, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			cfg.DeliveryCron = tc.cron
			cfg.DeliveryWindow = tc.window
			cfg.SchedulerEnabled = tc.scheduler
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
		})
	}
}

func TestLongestGapIrregularSchedule(t *testing.T) {
	schedule, err := cronParser.Parse("0 0,10 * * * *")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	from := time.Date(2025, 9, 14, 0, 0, 30, 0, time.UTC)
	if got := longestGap(schedule, from); got != 50*time.Minute {
		t.Fatalf("longestGap = %v, want 50m", got)
	}
}

func TestLoadDeliveryToken(t *testing.T) {
	setRequired(t)
	t.Setenv("DELIVERY_TRIGGER_TOKEN", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DeliveryToken != "s3cret" {
		t.Fatalf("DeliveryToken = %q, want s3cret", cfg.DeliveryToken)
	}
}

func TestLocationIsFixedOffset(t *testing.T) {
	cfg := &Config{UTCOffsetHours: 9}
	loc := cfg.Location()

	local := time.Date(2025, 9, 15, 8, 0, 0, 0, loc)
	want := time.Date(2025, 9, 14, 23, 0, 0, 0, time.UTC)
	if !local.UTC().Equal(want) {
		t.Fatalf("local %v in UTC = %v, want %v", local, local.UTC(), want)
	}
}
