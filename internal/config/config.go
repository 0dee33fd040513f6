package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Afrawles/cardsplit/internal/cards"
	"github.com/Afrawles/cardsplit/internal/expand"
	"github.com/Afrawles/cardsplit/internal/table"
	"github.com/joho/godotenv"
)

// DefaultColumn is the column holding card names in the offer exports.
const DefaultColumn = "Eligible Credit Cards"

type Config struct {
	Input        InputConfig
	Output       OutputConfig
	TargetColumn string
	Missing      string
	Empty        string
	Log          LogConfig
}

type InputConfig struct {
	Path     string
	Encoding string
	Sheet    string
}

type OutputConfig struct {
	Path    string
	Sheet   string
	Summary string
}

type LogConfig struct {
	Level  string
	Format string
	SeqURL string
}

// LoadFromEnv reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Input: InputConfig{
			Path:     os.Getenv("CARDSPLIT_INPUT"),
			Encoding: getEnvOrDefault("CARDSPLIT_ENCODING", table.DefaultEncoding),
			Sheet:    os.Getenv("CARDSPLIT_SHEET"),
		},
		Output: OutputConfig{
			Path:    os.Getenv("CARDSPLIT_OUTPUT"),
			Sheet:   os.Getenv("CARDSPLIT_OUTPUT_SHEET"),
			Summary: os.Getenv("CARDSPLIT_SUMMARY"),
		},
		TargetColumn: getEnvOrDefault("CARDSPLIT_COLUMN", DefaultColumn),
		Missing:      getEnvOrDefault("CARDSPLIT_MISSING", string(cards.MissingLiteral)),
		Empty:        getEnvOrDefault("CARDSPLIT_EMPTY", string(expand.EmptyDrop)),
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
			SeqURL: os.Getenv("SEQ_URL"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input path is required (--input or CARDSPLIT_INPUT)")
	}
	if strings.TrimSpace(c.TargetColumn) == "" {
		return fmt.Errorf("target column must not be empty")
	}
	if _, err := table.LookupEncoding(c.Input.Encoding); err != nil {
		return err
	}
	if _, err := cards.ParseMissingPolicy(c.Missing); err != nil {
		return err
	}
	if _, err := expand.ParseEmptyPolicy(c.Empty); err != nil {
		return err
	}
	if c.Output.Path != "" && samePath(c.Output.Path, c.Input.Path) {
		return fmt.Errorf("output path must differ from input path")
	}
	return nil
}

// OutputPath returns the configured output, or <input>_expanded.csv next to
// the input file.
func (c *Config) OutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	dir, base := filepath.Split(c.Input.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"_expanded.csv")
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
