// Package config loads crossql.ini, the project configuration file. The
// format is a plain INI dialect: [section] headers, key = value lines,
// # or ; comments. Keys are case-insensitive; values keep their case.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crossql/crossql/pool"
)

// DefaultFileName is looked up in the working directory when no path is
// given.
const DefaultFileName = "crossql.ini"

// Participant names one database taking part in distributed commits.
type Participant struct {
	Name string
	URL  string
}

// Config is the parsed project configuration.
type Config struct {
	// DatabaseURL is the primary database, [database] url.
	DatabaseURL string

	// Pool holds the [pool] section. Zero values fall back to the pool
	// package defaults.
	Pool pool.Config

	// Participants holds the [twophase] section: each key is a
	// participant name, each value its URL.
	Participants []Participant
}

// Load reads configuration from a file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads configuration from a reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	section := ""
	lineno := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.Trim(line, "[]"))
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", lineno, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if err := cfg.set(section, key, val); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) set(section, key, val string) error {
	switch section {
	case "database":
		if key == "url" {
			c.DatabaseURL = val
			return nil
		}
	case "pool":
		switch key {
		case "min_conns":
			return setInt(&c.Pool.MinConns, val)
		case "max_conns":
			return setInt(&c.Pool.MaxConns, val)
		case "test_before_acquire":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			c.Pool.TestBeforeAcquire = b
			return nil
		case "acquire_timeout":
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			c.Pool.AcquireTimeout = d
			return nil
		}
	case "twophase":
		// Every key in the section is a participant.
		c.Participants = append(c.Participants, Participant{Name: key, URL: val})
		return nil
	}
	return fmt.Errorf("unknown key %q in section [%s]", key, section)
}

func setInt(dst *int, val string) error {
	n, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
