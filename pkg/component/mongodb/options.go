package mongodb

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// redactedPassword is the placeholder used when serializing passwords.
const redactedPassword = "[REDACTED]"

// Options defines configuration options for MongoDB.
type Options struct {
	// Connection
	URI      string `json:"uri" mapstructure:"uri"`           // MongoDB URI (mongodb://...), takes precedence over host/port
	Host     string `json:"host" mapstructure:"host"`         // Host (if not using URI)
	Port     int    `json:"port" mapstructure:"port"`         // Port (default 27017)
	Username string `json:"username" mapstructure:"username"` // Username
	Password string `json:"-" mapstructure:"password"`        // Password (use MONGODB_PASSWORD env var) - excluded from JSON
	Database string `json:"database" mapstructure:"database"` // Database name

	// Connection pool
	MaxPoolSize     uint64        `json:"max-pool-size" mapstructure:"max-pool-size"`
	MinPoolSize     uint64        `json:"min-pool-size" mapstructure:"min-pool-size"`
	MaxConnIdleTime time.Duration `json:"max-conn-idle-time" mapstructure:"max-conn-idle-time"`

	// Timeouts
	ConnectTimeout         time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
	SocketTimeout          time.Duration `json:"socket-timeout" mapstructure:"socket-timeout"`
	ServerSelectionTimeout time.Duration `json:"server-selection-timeout" mapstructure:"server-selection-timeout"`

	// Other
	ReadPreference string `json:"read-preference" mapstructure:"read-preference"`
	ReplicaSet     string `json:"replica-set" mapstructure:"replica-set"`
	AuthSource     string `json:"auth-source" mapstructure:"auth-source"`
	Direct         bool   `json:"direct" mapstructure:"direct"`
}

// NewOptions creates a new Options object with default values. The
// defaults are operable with zero configuration against a local
// development MongoDB.
func NewOptions() *Options {
	return &Options{
		Host:                   "127.0.0.1",
		Port:                   27017,
		Database:               "shopstack",
		MaxPoolSize:            50,
		MinPoolSize:            5,
		MaxConnIdleTime:        5 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		SocketTimeout:          45 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
		ReadPreference:         "secondaryPreferred",
		AuthSource:             "admin",
	}
}

// Validate checks if the options are valid, picking the password up from
// the MONGODB_PASSWORD environment variable when not set explicitly.
func (o *Options) Validate() error {
	if o.Password == "" {
		o.Password = os.Getenv("MONGODB_PASSWORD")
	}

	if o.URI != "" {
		return nil
	}

	if o.Host == "" {
		return fmt.Errorf("host is required when URI is not provided")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if o.Database == "" {
		return fmt.Errorf("database is required")
	}

	switch o.ReadPreference {
	case "", "primary", "primaryPreferred", "secondary", "secondaryPreferred", "nearest":
	default:
		return fmt.Errorf("unknown read preference %q", o.ReadPreference)
	}

	return nil
}

// BuildURI builds a MongoDB connection URI from the options. An
// explicitly configured URI wins; otherwise the URI is assembled from
// the host/port/credential fields.
func (o *Options) BuildURI() string {
	if o.URI != "" {
		return o.URI
	}

	var uri strings.Builder
	uri.WriteString("mongodb://")

	if o.Username != "" {
		uri.WriteString(url.QueryEscape(o.Username))
		if o.Password != "" {
			uri.WriteString(":")
			uri.WriteString(url.QueryEscape(o.Password))
		}
		uri.WriteString("@")
	}

	uri.WriteString(o.Host)
	if o.Port != 0 {
		fmt.Fprintf(&uri, ":%d", o.Port)
	}

	uri.WriteString("/")
	uri.WriteString(o.Database)

	params := url.Values{}
	if o.AuthSource != "" && o.AuthSource != "admin" {
		params.Add("authSource", o.AuthSource)
	}
	if o.ReplicaSet != "" {
		params.Add("replicaSet", o.ReplicaSet)
	}
	if o.Direct {
		params.Add("directConnection", "true")
	}
	if len(params) > 0 {
		uri.WriteString("?")
		uri.WriteString(params.Encode())
	}

	return uri.String()
}

// optionsForJSON is used for JSON marshaling with password redacted.
type optionsForJSON struct {
	URI                    string        `json:"uri"`
	Host                   string        `json:"host"`
	Port                   int           `json:"port"`
	Username               string        `json:"username"`
	Password               string        `json:"password"`
	Database               string        `json:"database"`
	MaxPoolSize            uint64        `json:"max-pool-size"`
	MinPoolSize            uint64        `json:"min-pool-size"`
	MaxConnIdleTime        time.Duration `json:"max-conn-idle-time"`
	ConnectTimeout         time.Duration `json:"connect-timeout"`
	SocketTimeout          time.Duration `json:"socket-timeout"`
	ServerSelectionTimeout time.Duration `json:"server-selection-timeout"`
	ReadPreference         string        `json:"read-preference"`
	ReplicaSet             string        `json:"replica-set"`
	AuthSource             string        `json:"auth-source"`
	Direct                 bool          `json:"direct"`
}

// MarshalJSON implements json.Marshaler with password redaction.
// This prevents accidental password exposure in logs or debug output.
func (o *Options) MarshalJSON() ([]byte, error) {
	password := redactedPassword
	if o.Password == "" {
		password = ""
	}

	return json.Marshal(optionsForJSON{
		URI:                    o.URI,
		Host:                   o.Host,
		Port:                   o.Port,
		Username:               o.Username,
		Password:               password,
		Database:               o.Database,
		MaxPoolSize:            o.MaxPoolSize,
		MinPoolSize:            o.MinPoolSize,
		MaxConnIdleTime:        o.MaxConnIdleTime,
		ConnectTimeout:         o.ConnectTimeout,
		SocketTimeout:          o.SocketTimeout,
		ServerSelectionTimeout: o.ServerSelectionTimeout,
		ReadPreference:         o.ReadPreference,
		ReplicaSet:             o.ReplicaSet,
		AuthSource:             o.AuthSource,
		Direct:                 o.Direct,
	})
}

// String returns a string representation with password redacted.
// Safe for logging and debugging.
func (o *Options) String() string {
	password := redactedPassword
	if o.Password == "" {
		password = ""
	}
	return fmt.Sprintf("MongoDB{host=%s, port=%d, user=%s, password=%s, database=%s}",
		o.Host, o.Port, o.Username, password, o.Database)
}

// AddFlags adds flags for MongoDB options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, namePrefix string) {
	fs.StringVar(&o.URI, namePrefix+"uri", o.URI, "MongoDB URI (mongodb://...)")
	fs.StringVar(&o.Host, namePrefix+"host", o.Host, "MongoDB host")
	fs.IntVar(&o.Port, namePrefix+"port", o.Port, "MongoDB port")
	fs.StringVar(&o.Username, namePrefix+"username", o.Username, "MongoDB username")
	fs.StringVar(&o.Password, namePrefix+"password", o.Password, "MongoDB password (DEPRECATED: use MONGODB_PASSWORD env var instead)")
	fs.StringVar(&o.Database, namePrefix+"database", o.Database, "MongoDB database")
	fs.Uint64Var(&o.MaxPoolSize, namePrefix+"max-pool-size", o.MaxPoolSize, "MongoDB max pool size")
	fs.Uint64Var(&o.MinPoolSize, namePrefix+"min-pool-size", o.MinPoolSize, "MongoDB min pool size")
	fs.DurationVar(&o.MaxConnIdleTime, namePrefix+"max-conn-idle-time", o.MaxConnIdleTime, "MongoDB max connection idle time")
	fs.DurationVar(&o.ConnectTimeout, namePrefix+"connect-timeout", o.ConnectTimeout, "MongoDB connect timeout")
	fs.DurationVar(&o.SocketTimeout, namePrefix+"socket-timeout", o.SocketTimeout, "MongoDB socket timeout")
	fs.DurationVar(&o.ServerSelectionTimeout, namePrefix+"server-selection-timeout", o.ServerSelectionTimeout, "MongoDB server selection timeout")
	fs.StringVar(&o.ReadPreference, namePrefix+"read-preference", o.ReadPreference, "MongoDB read preference mode")
	fs.StringVar(&o.ReplicaSet, namePrefix+"replica-set", o.ReplicaSet, "MongoDB replica set")
	fs.StringVar(&o.AuthSource, namePrefix+"auth-source", o.AuthSource, "MongoDB auth source")
	fs.BoolVar(&o.Direct, namePrefix+"direct", o.Direct, "MongoDB direct connection")
}
