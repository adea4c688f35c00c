package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"nyaa/interpreter-go/pkg/interpreter"
	"nyaa/interpreter-go/pkg/lexer"
)

// ConfigFileName is looked up from a program's directory upwards.
const ConfigFileName = "nyaa.yml"

// ErrConfigNotFound reports that no nyaa.yml exists above the start directory.
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the parsed contents of nyaa.yml.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path        string            `yaml:"-"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Lexer       LexerConfig       `yaml:"lexer"`
	Verbose     VerboseConfig     `yaml:"verbose"`
}

type InterpreterConfig struct {
	MaxCallDepth int `yaml:"max_call_depth"`
	// CallCacheSize of 0 disables call-result memoisation.
	CallCacheSize int `yaml:"call_cache_size"`
}

type LexerConfig struct {
	MaxIdentifierLength int `yaml:"max_identifier_length"`
	MaxStringLength     int `yaml:"max_string_length"`
}

type VerboseConfig struct {
	Lexer       bool `yaml:"lexer"`
	Parser      bool `yaml:"parser"`
	Interpreter bool `yaml:"interpreter"`
}

// DefaultConfig returns the settings used when no nyaa.yml is present.
func DefaultConfig() *Config {
	lex := lexer.DefaultOptions()
	return &Config{
		Interpreter: InterpreterConfig{
			MaxCallDepth:  interpreter.DefaultMaxCallDepth,
			CallCacheSize: interpreter.DefaultCallCacheSize,
		},
		Lexer: LexerConfig{
			MaxIdentifierLength: lex.MaxIdentifierLength,
			MaxStringLength:     lex.MaxStringLength,
		},
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses a nyaa.yml file. Keys missing from the file keep their
// default values; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	cfg := DefaultConfig()
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every limit is usable.
func (c *Config) Validate() error {
	var errs ValidationError
	if c.Interpreter.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("interpreter.max_call_depth must be positive (got %d)", c.Interpreter.MaxCallDepth))
	}
	if c.Interpreter.CallCacheSize < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("interpreter.call_cache_size must not be negative (got %d)", c.Interpreter.CallCacheSize))
	}
	if c.Lexer.MaxIdentifierLength <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("lexer.max_identifier_length must be positive (got %d)", c.Lexer.MaxIdentifierLength))
	}
	if c.Lexer.MaxStringLength <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("lexer.max_string_length must be positive (got %d)", c.Lexer.MaxStringLength))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// FindConfig walks up from start (a file or directory) looking for nyaa.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

// ConfigFor loads the nyaa.yml governing source, or the defaults when none
// exists.
func ConfigFor(source string) (*Config, error) {
	path, err := FindConfig(source)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

// LexerOptions converts the lexer section.
func (c *Config) LexerOptions() lexer.Options {
	return lexer.Options{
		MaxIdentifierLength: c.Lexer.MaxIdentifierLength,
		MaxStringLength:     c.Lexer.MaxStringLength,
		Verbose:             c.Verbose.Lexer,
	}
}

// InterpreterOptions converts the interpreter section, wiring the given streams.
func (c *Config) InterpreterOptions(stdin io.Reader, stdout io.Writer) interpreter.Options {
	return interpreter.Options{
		Stdin:         stdin,
		Stdout:        stdout,
		MaxCallDepth:  c.Interpreter.MaxCallDepth,
		CallCacheSize: c.Interpreter.CallCacheSize,
		Verbose:       c.Verbose.Interpreter,
	}
}
