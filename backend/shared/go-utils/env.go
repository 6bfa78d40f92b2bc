package utils

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file when one exists. Variables already present
// in the environment win.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			Logger.Debug("No .env file found; using process environment only")
			return
		}
		Logger.WithError(err).Warn("Failed to parse .env file")
	}
}

// Env reads typed values from a getenv-style lookup. Parse failures are
// collected so a config loader can report all of them at once.
type Env struct {
	getenv func(string) string
	errs   []error
}

func NewEnv(getenv func(string) string) *Env {
	return &Env{getenv: getenv}
}

func (e *Env) String(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

// Required records an error when key is unset.
func (e *Env) Required(key string) string {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		e.errs = append(e.errs, errors.New(key+" env var is missing"))
	}
	return v
}

func (e *Env) Int(key string, def int) int {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, errors.New(key+" must be an integer"))
		return def
	}
	return n
}

func (e *Env) Float(key string, def float64) float64 {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.errs = append(e.errs, errors.New(key+" must be a number"))
		return def
	}
	return f
}

func (e *Env) Bool(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(e.getenv(key)))
	switch raw {
	case "":
		return def
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.errs = append(e.errs, errors.New(key+" must be a boolean"))
	return def
}

// Duration accepts Go duration strings ("15m", "720h").
func (e *Env) Duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		e.errs = append(e.errs, errors.New(key+" must be a positive duration"))
		return def
	}
	return d
}

// List splits a comma separated value, dropping blanks.
func (e *Env) List(key string, def []string) []string {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Fail records a validation error found by the caller.
func (e *Env) Fail(err error) {
	e.errs = append(e.errs, err)
}

func (e *Env) Err() error {
	return errors.Join(e.errs...)
}
