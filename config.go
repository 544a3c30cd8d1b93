package cwelookup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultNVDURL is the CVE query endpoint of the National Vulnerability Database
	DefaultNVDURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	// DefaultGitHubURL is the GitHub GraphQL endpoint
	DefaultGitHubURL = "https://api.github.com/graphql"
	// DefaultTimeout bounds every remote request
	DefaultTimeout = 30 * time.Second
)

// Mode selects how CVE identifiers are resolved for a whole batch
type Mode int

const (
	// ModeSnapshot resolves CVEs against a local NVD export
	ModeSnapshot Mode = iota
	// ModeDirect queries the NVD API for every CVE
	ModeDirect
)

func (m Mode) String() string {
	if m == ModeDirect {
		return "direct"
	}
	return "snapshot"
}

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snapshot", "":
		return ModeSnapshot, nil
	case "direct", "api":
		return ModeDirect, nil
	}
	return ModeSnapshot, fmt.Errorf("unknown resolution mode %q (valid: snapshot, direct)", s)
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Config is the explicit configuration record of a resolution run. It is
// built by the command line or the server and handed to the engine.
type Config struct {
	Mode             Mode          `yaml:"mode"`
	SnapshotPath     string        `yaml:"snapshot,omitempty"`
	GitHubTokenFile  string        `yaml:"github_token_file,omitempty"`
	NVDAPIKey        string        `yaml:"nvd_api_key,omitempty"`
	NVDURL           string        `yaml:"nvd_url"`
	GitHubURL        string        `yaml:"github_url"`
	Timeout          time.Duration `yaml:"timeout"`
	Concurrency      int           `yaml:"concurrency"`
	MissingAsUnknown bool          `yaml:"missing_as_unknown"`
}

// GetEnvDefault returns the value of the environment variable key or defVal
// when it is not set.
func GetEnvDefault(key, defVal string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defVal
	}
	return val
}

// NewConfig initializes a configuration with default values. The endpoints
// can be overridden through CWELOOKUP_NVD_URL and CWELOOKUP_GITHUB_URL.
func NewConfig() *Config {
	return &Config{
		Mode:        ModeSnapshot,
		NVDURL:      GetEnvDefault("CWELOOKUP_NVD_URL", DefaultNVDURL),
		GitHubURL:   GetEnvDefault("CWELOOKUP_GITHUB_URL", DefaultGitHubURL),
		Timeout:     DefaultTimeout,
		Concurrency: 1,
	}
}

// ReadFrom implements the io.ReaderFrom interface. Values present in the
// YAML document override the current ones.
func (c *Config) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return int64(len(data)), fmt.Errorf("parsing config: %w", err)
	}
	return int64(len(data)), nil
}

// WriteTo implements the io.WriterTo interface
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return 0, err
	}
	return io.Copy(w, bytes.NewReader(data))
}

// Validate reports every inconsistency of the configuration at once
func (c *Config) Validate() error {
	var err error
	switch c.Mode {
	case ModeSnapshot:
		if c.SnapshotPath == "" {
			err = multierr.Append(err, errors.New("snapshot mode requires a snapshot file"))
		}
		if c.NVDAPIKey != "" {
			err = multierr.Append(err, errors.New("an NVD API key cannot be combined with snapshot mode"))
		}
	case ModeDirect:
		if c.SnapshotPath != "" {
			err = multierr.Append(err, errors.New("a snapshot file cannot be combined with direct mode"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown resolution mode %d", int(c.Mode)))
	}
	if c.Concurrency < 1 {
		err = multierr.Append(err, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	err = multierr.Append(err, validateURL("nvd_url", c.NVDURL))
	err = multierr.Append(err, validateURL("github_url", c.GitHubURL))
	return err
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s: %q is not an absolute URL", name, raw)
	}
	return nil
}
