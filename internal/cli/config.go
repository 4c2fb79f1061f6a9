package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Output formats accepted by --output
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config is the merged result of flags and TETRIS_* environment variables
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig seeds flag defaults from the environment
func DefaultConfig() *Config {
	return &Config{
		ServerURL: envOr("TETRIS_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("TETRIS_TOKEN"),
		TokenFile: envOr("TETRIS_TOKEN_FILE", defaultTokenFile()),
		Output:    OutputText,
	}
}

// Validate rejects unusable server URLs and unknown output formats
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --server %q: want http(s)://host[:port]", c.ServerURL)
	}
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("invalid --output %q: want %s or %s", c.Output, OutputText, OutputJSON)
	}
}

// LoadToken reads the token file unless --token or TETRIS_TOKEN already set one
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken writes the token file atomically with owner-only permissions
func (c *Config) SaveToken(token string) error {
	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(token + "\n"); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.TokenFile); err != nil {
		return err
	}
	c.Token = token
	return nil
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// defaultTokenFile is $XDG_CONFIG_HOME/tetrisctl/token or the platform equivalent
func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".tetrisctl", "token")
	}
	return filepath.Join(dir, "tetrisctl", "token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
