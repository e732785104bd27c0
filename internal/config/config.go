// Package config loads the optional per-user configuration file that sets
// the home timezone, verbosity, and error-mail destination.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/drisen/mylib/internal/logerr"
	"github.com/drisen/mylib/internal/timeconv"
)

// FileName is the YAML config file name, under $HOME.
const FileName = ".mylib.yaml"

// MailConfig configures error-mail delivery. Mail is disabled unless Host
// is set.
type MailConfig struct {
	Host     string   `yaml:"host"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Subject  string   `yaml:"subject"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
}

// Config is the decoded configuration file plus computed defaults.
type Config struct {
	HomeZone        string     `yaml:"home_zone"`
	Verbose         int        `yaml:"verbose"`
	CredentialsFile string     `yaml:"credentials_file"`
	Mail            MailConfig `yaml:"mail"`
}

// DefaultPath returns ~/.mylib.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(homeDir, FileName), nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		HomeZone: timeconv.DefaultZoneName,
		Mail: MailConfig{
			Subject: ProgramName(),
		},
	}
}

// Load reads the configuration file at path, filling defaults for anything
// unset. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.HomeZone == "" {
		c.HomeZone = timeconv.DefaultZoneName
	}
	if c.Mail.Subject == "" {
		c.Mail.Subject = ProgramName()
	}
	if c.Mail.Host != "" {
		if len(c.Mail.To) == 0 {
			c.Mail.To = []string{DefaultRecipient()}
		}
		if c.Mail.From == "" {
			c.Mail.From = DefaultRecipient()
		}
	}
}

// Validate checks field values that Load cannot default away.
func (c *Config) Validate() error {
	if c.Verbose < 0 {
		return fmt.Errorf("verbose must not be negative, got %d", c.Verbose)
	}
	if _, err := timeconv.NewZone(c.HomeZone); err != nil {
		return err
	}
	return nil
}

// Zone resolves the configured home timezone.
func (c *Config) Zone() (*timeconv.Zone, error) {
	return timeconv.NewZone(c.HomeZone)
}

// MailEnabled reports whether error mail delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != "" && len(c.Mail.To) > 0
}

// LogConfig converts the mail block to a logerr configuration.
func (c *Config) LogConfig() logerr.Config {
	return logerr.Config{
		Subject:  c.Mail.Subject,
		From:     c.Mail.From,
		To:       c.Mail.To,
		Host:     c.Mail.Host,
		Username: c.Mail.Username,
		Password: c.Mail.Password,
	}
}

// ProgramName is the default mail subject: the invoked binary's base name.
func ProgramName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "mylib"
	}
	return filepath.Base(os.Args[0])
}

// DefaultRecipient is user@domain for the current user, where domain is the
// last two labels of the hostname. Falls back to user@localhost.
func DefaultRecipient() string {
	name := "nobody"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}

	domain := "localhost"
	if host, err := os.Hostname(); err == nil {
		labels := strings.Split(host, ".")
		if len(labels) >= 2 {
			domain = strings.Join(labels[len(labels)-2:], ".")
		} else if host != "" {
			domain = host
		}
	}
	return name + "@" + domain
}
