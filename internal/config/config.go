package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// Driver names stored in connection profiles.
const (
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

var defaultPorts = map[string]int{
	DriverPostgres:  5432,
	DriverMySQL:     3306,
	DriverSQLServer: 1433,
}

// Config represents the application configuration.
type Config struct {
	Connections []Connection `mapstructure:"connections" yaml:"connections"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
	Logging     Logging      `mapstructure:"logging" yaml:"logging"`
}

// Connection represents a saved database connection profile.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host,omitempty"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty"`
	Database string `mapstructure:"database" yaml:"database,omitempty"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode,omitempty"`
	// Path is the database file of a sqlite profile.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// Preferences holds user preferences.
type Preferences struct {
	Theme             string `mapstructure:"theme" yaml:"theme"`
	DefaultConnection string `mapstructure:"default_connection" yaml:"default_connection"`
}

// Logging configures the log file.
type Logging struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// NormalizeDriver maps URL schemes and aliases to a profile driver name.
func NormalizeDriver(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return DriverPostgres, true
	case "mysql", "mariadb":
		return DriverMySQL, true
	case "sqlserver", "mssql":
		return DriverSQLServer, true
	case "sqlite", "sqlite3", "file":
		return DriverSQLite, true
	default:
		return "", false
	}
}

// DSN builds the connection URL for the profile's driver.
func (c Connection) DSN() string {
	driver, _ := NormalizeDriver(c.Driver)
	if driver == DriverSQLite {
		return "sqlite://" + c.Path
	}
	if driver == "" {
		driver = DriverPostgres
	}

	u := url.URL{Scheme: driver, Host: c.Host}
	if driver == DriverPostgres {
		u.Scheme = "postgresql"
	}
	if c.Port > 0 {
		u.Host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}

	q := url.Values{}
	switch driver {
	case DriverSQLServer:
		if c.Database != "" {
			q.Set("database", c.Database)
		}
	default:
		u.Path = "/" + c.Database
	}
	if c.SSLMode != "" && driver == DriverPostgres {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	if driver, _ := NormalizeDriver(c.Driver); driver == DriverSQLite {
		return c.Path
	}
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ParseDSN parses a connection URL into a Connection.
func ParseDSN(dsn string) (Connection, error) {
	scheme, rest, ok := strings.Cut(dsn, ":")
	if !ok {
		return Connection{}, fmt.Errorf("invalid DSN: missing scheme")
	}
	driver, ok := NormalizeDriver(scheme)
	if !ok {
		return Connection{}, fmt.Errorf("invalid DSN: unsupported scheme %q", scheme)
	}

	if driver == DriverSQLite {
		path := strings.TrimPrefix(rest, "//")
		conn := Connection{Driver: driver, Path: path}
		conn.Name = "sqlite-" + filepath.Base(path)
		return conn, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}

	conn := Connection{
		Driver:   driver,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}
	if driver == DriverSQLServer && conn.Database == "" {
		conn.Database = u.Query().Get("database")
	}

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	if portStr := u.Port(); portStr != "" {
		conn.Port, _ = strconv.Atoi(portStr)
	}
	if conn.Port == 0 {
		conn.Port = defaultPorts[driver]
	}

	// Auto-generate a name
	conn.Name = fmt.Sprintf("%s-%s-%d-%s", driver, conn.Host, conn.Port, conn.Database)

	return conn, nil
}

// HasConnection checks if a connection with the given name already exists.
func (cfg *Config) HasConnection(name string) bool {
	return cfg.Connection(name) != nil
}

// Connection returns the profile with the given name, or nil.
func (cfg *Config) Connection(name string) *Connection {
	for i := range cfg.Connections {
		if cfg.Connections[i].Name == name {
			return &cfg.Connections[i]
		}
	}
	return nil
}

// AddConnection appends a connection if it doesn't already exist.
func (cfg *Config) AddConnection(conn Connection) {
	if !cfg.HasConnection(conn.Name) {
		cfg.Connections = append(cfg.Connections, conn)
	}
}

// PutConnection adds conn or replaces the profile with the same name.
func (cfg *Config) PutConnection(conn Connection) {
	if existing := cfg.Connection(conn.Name); existing != nil {
		*existing = conn
		return
	}
	cfg.Connections = append(cfg.Connections, conn)
}

// RemoveConnection drops the named profile. Returns false if it was absent.
func (cfg *Config) RemoveConnection(name string) bool {
	for i := range cfg.Connections {
		if cfg.Connections[i].Name == name {
			cfg.Connections = append(cfg.Connections[:i], cfg.Connections[i+1:]...)
			if cfg.Preferences.DefaultConnection == name {
				cfg.Preferences.DefaultConnection = ""
			}
			return true
		}
	}
	return false
}
