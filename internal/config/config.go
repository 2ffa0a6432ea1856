package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/teemow/calbot/internal/google"
)

// DefaultHTTPAddr is the webhook listen address when none is configured.
const DefaultHTTPAddr = ":8080"

// Environment variables that override values from the config file.
const (
	EnvChannelSecret      = "LINE_CHANNEL_SECRET"
	EnvChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvCalendarID         = "CALENDAR_ID"
	EnvCredentialsJSON    = "CREDENTIALS_JSON"
	EnvCredentialsFile    = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvHTTPAddr           = "HTTP_ADDR"
	EnvDigestSchedule     = "DIGEST_SCHEDULE"
	EnvDigestTo           = "DIGEST_TO"
)

// LINEConfig holds the Messaging API channel credentials.
type LINEConfig struct {
	ChannelSecret      string `yaml:"channel_secret"`
	ChannelAccessToken string `yaml:"channel_access_token"`
}

// CalendarConfig selects the calendar and the service account used for it.
type CalendarConfig struct {
	// ID of the calendar every command operates on. The service account must
	// have write access to it.
	ID string `yaml:"id"`
	// CredentialsJSON is the inline service-account key. It wins over
	// CredentialsFile when both are set.
	CredentialsJSON string `yaml:"credentials_json"`
	CredentialsFile string `yaml:"credentials_file"`
}

// HTTPConfig configures the webhook server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DigestConfig configures the scheduled daily digest push.
type DigestConfig struct {
	// Schedule is a standard five-field cron expression evaluated in JST.
	// The digest is disabled when empty.
	Schedule string `yaml:"schedule"`
	// To lists the LINE user, group or room IDs the digest is pushed to.
	To []string `yaml:"to"`
}

// Enabled reports whether a digest should be scheduled.
func (d DigestConfig) Enabled() bool {
	return d.Schedule != ""
}

// Config is the bot configuration.
type Config struct {
	LINE     LINEConfig     `yaml:"line"`
	Calendar CalendarConfig `yaml:"calendar"`
	HTTP     HTTPConfig     `yaml:"http"`
	Digest   DigestConfig   `yaml:"digest"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: DefaultHTTPAddr},
	}
}

// LoadEnvFiles loads KEY=VALUE pairs from the given dotenv files into the
// process environment without overriding variables that are already set.
// Missing files are skipped. With no arguments ".env" is tried.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the environment, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	// Hosted env editors often append a newline to pasted secrets.
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok {
			if v = strings.TrimSpace(v); v != "" {
				*dst = v
			}
		}
	}

	set(&c.LINE.ChannelSecret, EnvChannelSecret)
	set(&c.LINE.ChannelAccessToken, EnvChannelAccessToken)
	set(&c.Calendar.ID, EnvCalendarID)
	set(&c.Calendar.CredentialsJSON, EnvCredentialsJSON)
	set(&c.Calendar.CredentialsFile, EnvCredentialsFile)
	set(&c.HTTP.Addr, EnvHTTPAddr)
	set(&c.Digest.Schedule, EnvDigestSchedule)

	if v, ok := lookup(EnvDigestTo); ok && v != "" {
		c.Digest.To = splitList(v)
	}
}

func (c *Config) normalize() {
	for _, v := range []*string{
		&c.LINE.ChannelSecret, &c.LINE.ChannelAccessToken,
		&c.Calendar.ID, &c.Calendar.CredentialsJSON, &c.Calendar.CredentialsFile,
		&c.HTTP.Addr,
	} {
		*v = strings.TrimSpace(*v)
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	c.Digest.Schedule = strings.TrimSpace(c.Digest.Schedule)
	c.Digest.To = splitList(strings.Join(c.Digest.To, ","))
}

// splitList splits a comma separated list and drops empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateCalendar checks the settings needed to reach the calendar backend.
func (c *Config) ValidateCalendar() error {
	var errs []error
	if c.Calendar.ID == "" {
		errs = append(errs, fmt.Errorf("calendar ID is required (set %s)", EnvCalendarID))
	}
	if c.Calendar.CredentialsJSON == "" && c.Calendar.CredentialsFile == "" {
		errs = append(errs, fmt.Errorf("service account credentials are required (set %s or %s)", EnvCredentialsJSON, EnvCredentialsFile))
	}
	return errors.Join(errs...)
}

// ValidateWebhook checks the settings needed to serve the LINE webhook,
// including the calendar settings and the digest.
func (c *Config) ValidateWebhook() error {
	var errs []error
	if c.LINE.ChannelSecret == "" {
		errs = append(errs, fmt.Errorf("LINE channel secret is required (set %s)", EnvChannelSecret))
	}
	if c.LINE.ChannelAccessToken == "" {
		errs = append(errs, fmt.Errorf("LINE channel access token is required (set %s)", EnvChannelAccessToken))
	}
	if c.Digest.Enabled() && len(c.Digest.To) == 0 {
		errs = append(errs, fmt.Errorf("digest schedule is set but no destination is configured (set %s)", EnvDigestTo))
	}
	if err := c.ValidateCalendar(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Credentials returns the service-account key bytes.
func (c *Config) Credentials() ([]byte, error) {
	return google.LoadCredentials(c.Calendar.CredentialsJSON, c.Calendar.CredentialsFile)
}
