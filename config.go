// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"errors"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/boltstream/gobolt/boltloc"
)

// log levels accepted in the config file
const (
	Off   string = "OFF"   // log level for logging switched off
	Error string = "ERROR" // error log level
	Warn  string = "WARN"  // warn log level
	Info  string = "INFO"  // info log level
	Debug string = "DEBUG" // debug log level
	Trace string = "TRACE" // trace log level
)

// Config holds the settings of a cursor. The zero value is not valid, use
// DefaultConfig or LoadConfig.
type Config struct {
	// BufferSize is the size of the read buffer in bytes.
	BufferSize int `toml:"buffer_size"`
	// MaxRows stops the cursor after that many rows; zero means no limit.
	MaxRows int64 `toml:"max_rows"`
	// LogResponse logs every raw line of the stream at debug level.
	LogResponse bool `toml:"log_response"`
	// LogLevel and LogPath configure the gobolt logger when loaded from a file.
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	// TimeZone is the calendar naive temporal values are read in when the
	// caller passes none.
	TimeZone string `toml:"time_zone"`
	// Compression of the incoming stream.
	Compression Compression `toml:"compression"`
	// TableName and DatabaseName are reported in the column metadata.
	TableName    string `toml:"table_name"`
	DatabaseName string `toml:"database_name"`

	location  *time.Location
	statement Statement
	queryID   string
}

type configFile struct {
	Cursor *Config `toml:"cursor"`
}

// Option changes one setting of a Config.
type Option func(*Config)

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		BufferSize:  defaultBufferSize,
		Compression: CompressionNone,
		location:    time.UTC,
	}
}

// WithConfig replaces all settings with a copy of cfg. Options given after it
// still apply.
func WithConfig(cfg *Config) Option {
	return func(c *Config) {
		if cfg != nil {
			*c = *cfg
		}
	}
}

// WithBufferSize sets the size of the read buffer.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithMaxRows limits the number of rows the cursor returns.
func WithMaxRows(n int64) Option {
	return func(c *Config) {
		c.MaxRows = n
	}
}

// WithResponseLogging logs the raw stream lines at debug level.
func WithResponseLogging(enabled bool) Option {
	return func(c *Config) {
		c.LogResponse = enabled
	}
}

// WithLocation sets the default calendar for naive temporal values.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		c.location = loc
		if loc != nil {
			c.TimeZone = loc.String()
		}
	}
}

// WithCompression sets the compression of the incoming stream.
func WithCompression(compression Compression) Option {
	return func(c *Config) {
		c.Compression = compression
	}
}

// WithTable sets the database and table names reported by the columns.
func WithTable(database, table string) Option {
	return func(c *Config) {
		c.DatabaseName = database
		c.TableName = table
	}
}

// WithStatement registers the statement owning the cursor.
func WithStatement(stmt Statement) Option {
	return func(c *Config) {
		c.statement = stmt
	}
}

// WithQueryID tags logs and errors of the cursor with a query id.
func WithQueryID(queryID string) Option {
	return func(c *Config) {
		c.queryID = queryID
	}
}

func newConfig(opts []Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the settings and resolves the time zone.
func (c *Config) validate() error {
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.BufferSize < minBufferSize {
		return errConfig(nil, errMsgInvalidBufferSize, minBufferSize, c.BufferSize)
	}
	if c.MaxRows < 0 {
		return errConfig(nil, errMsgInvalidMaxRows, c.MaxRows)
	}
	if c.Compression == "" {
		c.Compression = CompressionNone
	}
	if !c.Compression.valid() {
		return errConfig(nil, errMsgUnknownCompression, c.Compression)
	}
	if c.LogLevel != "" {
		if _, err := toLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	if c.location == nil || c.location.String() != c.TimeZone {
		loc, err := boltloc.Location(c.TimeZone)
		if err != nil {
			return errConfig(err, errMsgUnknownLocation, c.TimeZone)
		}
		c.location = loc
	}
	return nil
}

// Location returns the default calendar of naive temporal values.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// LoadConfig reads the [cursor] section of a TOML config file. With an empty
// path the file is looked up in GOBOLT_CONFIG_FILE, $GOBOLT_HOME, the
// working directory and the home directory; without a file the defaults are
// returned. Log level and path set in the file are applied to the gobolt
// logger.
func LoadConfig(filePath string) (*Config, error) {
	filePath, err := findConfigFilePath(filePath, configPredefinedDirs())
	if err != nil {
		return nil, errConfig(err, errMsgFailedToParseConfig, filePath, err)
	}
	if filePath == "" {
		return DefaultConfig(), nil
	}
	cfg, err := parseConfiguration(filePath)
	if err != nil {
		return nil, err
	}
	if err = cfg.configureLogging(); err != nil {
		return nil, err
	}
	logger.Debugf("loaded cursor configuration from %v", filePath)
	return cfg, nil
}

func parseConfiguration(filePath string) (*Config, error) {
	file := configFile{Cursor: DefaultConfig()}
	if _, err := toml.DecodeFile(filePath, &file); err != nil {
		return nil, errConfig(err, errMsgFailedToParseConfig, filePath, err)
	}
	if file.Cursor == nil {
		return nil, errConfig(nil, errMsgFailedToParseConfig, filePath, "cursor section not found")
	}
	if err := file.Cursor.validate(); err != nil {
		return nil, err
	}
	return file.Cursor, nil
}

func toLogLevel(logLevelString string) (string, error) {
	logLevel := strings.ToUpper(logLevelString)
	switch logLevel {
	case Off, Error, Warn, Info, Debug, Trace:
		return logLevel, nil
	default:
		return "", errConfig(nil, errMsgInvalidLogLevel, logLevelString)
	}
}

func (c *Config) configureLogging() error {
	if c.LogLevel != "" {
		if err := logger.SetLogLevel(c.LogLevel); err != nil {
			return errConfig(err, errMsgConfigureLogging, err)
		}
	}
	if c.LogPath == "" {
		return nil
	}
	output, err := createLogWriter(c.LogPath)
	if err != nil {
		return errConfig(err, errMsgConfigureLogging, err)
	}
	logger.SetOutput(output)
	return nil
}

func createLogWriter(logPath string) (io.Writer, error) {
	if strings.EqualFold(logPath, "STDOUT") {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(logPath, 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path.Join(logPath, "gobolt.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return file, nil
}

const (
	defaultConfigName = "config.toml"
	configEnvName     = "GOBOLT_CONFIG_FILE"
	homeEnvName       = "GOBOLT_HOME"
)

func findConfigFilePath(filePath string, predefinedDirs []string) (string, error) {
	if filePath != "" {
		return filePath, nil
	}
	if envFilePath := os.Getenv(configEnvName); envFilePath != "" {
		return envFilePath, nil
	}
	return searchForConfigFile(predefinedDirs)
}

func searchForConfigFile(directories []string) (string, error) {
	for _, dir := range directories {
		filePath := path.Join(dir, defaultConfigName)
		exists, err := existsFile(filePath)
		if err != nil {
			return "", err
		}
		if exists {
			return filePath, nil
		}
	}
	return "", nil
}

func existsFile(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func configPredefinedDirs() []string {
	var dirs []string
	if home := os.Getenv(homeEnvName); home != "" {
		dirs = append(dirs, home)
	}
	dirs = append(dirs, ".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, path.Join(homeDir, ".gobolt"))
	}
	return dirs
}
