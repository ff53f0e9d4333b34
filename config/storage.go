package config

import (
	"net"
	"strconv"
	"time"
)

const (
	DefaultRemotePort       = 22
	DefaultConnectTimeout   = 30 * time.Second
	DefaultOperationTimeout = 30 * time.Second
	DefaultDialRate         = 5.0
	DefaultLocalDataDir     = "./data"
)

// RemoteEndpoint describes one SSH/SFTP host.
type RemoteEndpoint struct {
	Host             string
	Port             int
	User             string
	Password         string
	Root             string
	HostKey          string // authorized_keys line
	KnownHostsFile   string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
	DialRate         float64 // connections per second
}

// Configured reports whether enough is set to open a session.
func (e RemoteEndpoint) Configured() bool {
	return e.Host != "" && e.User != "" && e.Password != ""
}

// Address returns host:port.
func (e RemoteEndpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

type StorageConfig struct {
	Remote         RemoteEndpoint
	Mirror         RemoteEndpoint
	MirrorToRemote bool
	LocalDataDir   string
}

// UsesRemote reports whether the primary store is the remote host rather than the local directory.
func (c StorageConfig) UsesRemote() bool {
	return c.Remote.Configured()
}

type MailConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	From              string
	NotificationEmail string
}

func (m MailConfig) Configured() bool {
	return m.Host != "" && m.NotificationEmail != ""
}

func loadEndpoint(prefix string) RemoteEndpoint {
	return RemoteEndpoint{
		Host:             GetEnv(prefix + "_HOST"),
		Port:             GetEnvInt(prefix+"_PORT", DefaultRemotePort),
		User:             GetEnv(prefix + "_USER"),
		Password:         GetEnv(prefix + "_PASSWORD"),
		Root:             GetEnv(prefix + "_DIR"),
		HostKey:          GetEnv(prefix + "_HOST_KEY"),
		KnownHostsFile:   GetEnv(prefix + "_KNOWN_HOSTS"),
		ConnectTimeout:   GetEnvDuration(prefix+"_CONNECT_TIMEOUT", DefaultConnectTimeout),
		OperationTimeout: GetEnvDuration(prefix+"_OPERATION_TIMEOUT", DefaultOperationTimeout),
		DialRate:         GetEnvFloat(prefix+"_DIAL_RATE", DefaultDialRate),
	}
}

// LoadStorageConfig reads the remote, mirror and local settings from the environment.
// Nothing here is required; absent remote settings select the local data directory.
func LoadStorageConfig() StorageConfig {
	cfg := StorageConfig{
		Remote:         loadEndpoint("REMOTE"),
		Mirror:         loadEndpoint("MIRROR"),
		MirrorToRemote: GetEnvBool("MIRROR_TO_REMOTE", false),
		LocalDataDir:   GetEnvDefault("LOCAL_DATA_DIR", DefaultLocalDataDir),
	}

	// The mirror inherits the primary remote root when it has none of its own
	if cfg.Mirror.Root == "" {
		cfg.Mirror.Root = cfg.Remote.Root
	}
	return cfg
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		Host:              GetEnv("SMTP_HOST"),
		Port:              GetEnvInt("SMTP_PORT", 587),
		User:              GetEnv("SMTP_USER"),
		Password:          GetEnv("SMTP_PASSWORD"),
		From:              GetEnvDefault("SMTP_FROM", GetEnv("SMTP_USER")),
		NotificationEmail: GetEnv("NOTIFICATION_EMAIL"),
	}
}
