package dialect

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration defaults.
const (
	// DefaultDriver is the dialect used when Config.Driver is empty.
	DefaultDriver = MSSQL
	// DefaultSQLDriver is the database/sql driver used when Config.SQLDriver is empty.
	DefaultSQLDriver = "sqlserver"
	// DefaultDBCharset is the database-side encoding used when the
	// dbcharset key is absent.
	DefaultDBCharset = "windows-1250"
	// DefaultCharset is the client-side encoding used when the charset key
	// is absent.
	DefaultCharset = "UTF-8"
)

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("dialect: invalid configuration")

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Key     string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("dialect: config error for %q (value: %v): %s", e.Key, e.Value, e.Message)
	}
	return fmt.Sprintf("dialect: config error for %q: %s", e.Key, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(key string, value any, message string) *ConfigError {
	return &ConfigError{Key: key, Value: value, Message: message}
}

// Config holds the connection options of a driver.
//
// A Config built as a struct literal is taken as is: an empty DBCharset or
// Charset disables transcoding. ParseConfig, LoadConfig and DefaultConfig
// fill in the charset defaults when the keys are absent; see Charsets for
// how those defaults combine with drivers that decode text themselves.
type Config struct {
	// Driver is the dialect name (see Register).
	Driver string
	// SQLDriver is the database/sql driver name used to open Host.
	SQLDriver string
	// DSN is passed verbatim to the database/sql driver when set.
	DSN string
	// Host is the server host name, optionally with a port (host:port).
	Host     string
	Username string
	Password string
	// Persistent keeps idle connections in the database/sql pool.
	Persistent bool
	// Database is selected after connecting when set.
	Database string
	// Resource is a pre-existing *sql.DB or *sql.Conn. It bypasses
	// host and credentials.
	Resource any
	// DBCharset is the encoding of text stored in the database.
	DBCharset string
	// Charset is the encoding of text handed in and out by the caller.
	Charset string

	// defaultCharsets is set while DBCharset and Charset hold the values
	// filled in by DefaultConfig.
	defaultCharsets bool
}

// unicodeDrivers are database/sql drivers that return text columns as
// UTF-8 strings and read statements as UTF-8.
var unicodeDrivers = map[string]bool{
	"sqlserver": true, // github.com/microsoft/go-mssqldb
	"mssql":     true,
	"azuresql":  true,
	"sqlite":    true, // modernc.org/sqlite
	"sqlite3":   true,
}

// Charsets returns the database and client encodings a driver transcodes
// between. Default charsets are dropped when the config opens a database/sql
// driver that already decodes text to UTF-8, since converting its strings
// again garbles non-ASCII text. Charsets set explicitly, and any config
// carrying a Resource, are returned as they are.
func (c *Config) Charsets() (db, client string) {
	driver := c.SQLDriver
	if driver == "" {
		driver = DefaultSQLDriver
	}
	if c.defaultCharsets && c.Resource == nil && unicodeDrivers[strings.ToLower(driver)] {
		return "", ""
	}
	return c.DBCharset, c.Charset
}

// DefaultConfig returns a Config with the default driver names and charsets.
func DefaultConfig() *Config {
	return &Config{
		Driver:    DefaultDriver,
		SQLDriver: DefaultSQLDriver,
		DBCharset: DefaultDBCharset,
		Charset:   DefaultCharset,

		defaultCharsets: true,
	}
}

// configKeys maps the accepted keys, aliases included, to their setters.
var configKeys = map[string]func(c *Config, v any) error{
	"driver":     stringSetter("driver", func(c *Config, s string) { c.Driver = s }),
	"sqldriver":  stringSetter("sqldriver", func(c *Config, s string) { c.SQLDriver = s }),
	"dsn":        stringSetter("dsn", func(c *Config, s string) { c.DSN = s }),
	"host":       stringSetter("host", func(c *Config, s string) { c.Host = s }),
	"username":   stringSetter("username", func(c *Config, s string) { c.Username = s }),
	"password":   stringSetter("password", func(c *Config, s string) { c.Password = s }),
	"database":   stringSetter("database", func(c *Config, s string) { c.Database = s }),
	"dbcharset":  stringSetter("dbcharset", func(c *Config, s string) { c.DBCharset, c.defaultCharsets = s, false }),
	"charset":    stringSetter("charset", func(c *Config, s string) { c.Charset, c.defaultCharsets = s, false }),
	"persistent": setPersistent,
	"resource": func(c *Config, v any) error {
		c.Resource = v
		return nil
	},
}

// configAliases maps alternative key spellings to their canonical key.
var configAliases = map[string]string{
	"user": "username",
	"pass": "password",
}

// ParseConfig builds a Config from a key/value map. Keys are matched case
// insensitively; unknown keys and keys naming the same option twice (such
// as "user" and "username") are rejected. Absent keys keep the values of
// DefaultConfig; a key present with an empty or nil value clears it, which
// for the charsets disables transcoding.
func ParseConfig(m map[string]any) (*Config, error) {
	c := DefaultConfig()
	var (
		errs []error
		seen = make(map[string]string, len(m))
	)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		key := strings.ToLower(k)
		if canonical, ok := configAliases[key]; ok {
			key = canonical
		}
		set, ok := configKeys[key]
		if !ok {
			errs = append(errs, NewConfigError(k, nil, "unknown key"))
			continue
		}
		if prev, ok := seen[key]; ok {
			errs = append(errs, NewConfigError(k, nil, fmt.Sprintf("duplicates key %q", prev)))
			continue
		}
		seen[key] = k
		if err := set(c, m[k]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the semantics of ParseConfig.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	parsed, err := ParseConfig(m)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// envRef matches ${VAR} references in config values.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadConfig reads a YAML connection configuration. References of the form
// ${VAR} in string values are replaced by the environment variable VAR;
// any other "$" is kept literally.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialect: read config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("dialect: parse config %s: %w", path, err)
	}
	for k, v := range m {
		if s, ok := v.(string); ok {
			m[k] = expandEnv(s)
		}
	}
	c, err := ParseConfig(m)
	if err != nil {
		return nil, fmt.Errorf("dialect: parse config %s: %w", path, err)
	}
	return c, nil
}

func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

func stringSetter(key string, set func(*Config, string)) func(*Config, any) error {
	return func(c *Config, v any) error {
		switch v := v.(type) {
		case nil:
			set(c, "")
		case string:
			set(c, v)
		case int, int64, float64:
			set(c, fmt.Sprint(v))
		default:
			return NewConfigError(key, v, fmt.Sprintf("expected string, got %T", v))
		}
		return nil
	}
}

func setPersistent(c *Config, v any) error {
	switch v := v.(type) {
	case nil:
		c.Persistent = false
	case bool:
		c.Persistent = v
	case int:
		c.Persistent = v != 0
	case string:
		if v == "" {
			c.Persistent = false
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return NewConfigError("persistent", v, "expected boolean")
		}
		c.Persistent = b
	default:
		return NewConfigError("persistent", v, fmt.Sprintf("expected boolean, got %T", v))
	}
	return nil
}
