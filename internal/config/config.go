package config

import (
	"os"

	pkgcfg "github.com/Skotchmaster/ecommerce_api/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DBDriver    string
	DatabaseURL string

	JWTSecret []byte

	AdminEmail    string
	AdminPassword string

	LogLevel string
	LogFile  string

	KafkaBrokers []string

	ESAddresses []string
	ESUser      string
	ESPassword  string
	ESIndex     string

	Storage StorageConfig
}

type StorageConfig struct {
	Driver        string
	UploadDir     string
	PublicBaseURL string

	SFTPAddr       string
	SFTPUser       string
	SFTPPassword   string
	SFTPDir        string
	SFTPKnownHosts string
}

func Load() *Config {
	return &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "ecommerce-api"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),

		DBDriver:    pkgcfg.EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		LogLevel: pkgcfg.EnvDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		ESAddresses: pkgcfg.CSV(os.Getenv("ES_ADDRESSES")),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		ESIndex:     pkgcfg.EnvDefault("ES_INDEX", "products"),

		Storage: StorageConfig{
			Driver:        pkgcfg.EnvDefault("STORAGE_DRIVER", "local"),
			UploadDir:     pkgcfg.EnvDefault("UPLOAD_DIR", "./uploads"),
			PublicBaseURL: pkgcfg.EnvDefault("PUBLIC_BASE_URL", "http://localhost:8080/static/uploads"),

			SFTPAddr:       os.Getenv("SFTP_ADDR"),
			SFTPUser:       os.Getenv("SFTP_USER"),
			SFTPPassword:   os.Getenv("SFTP_PASSWORD"),
			SFTPDir:        pkgcfg.EnvDefault("SFTP_DIR", "/upload"),
			SFTPKnownHosts: os.Getenv("SFTP_KNOWN_HOSTS"),
		},
	}
}

// MustValid stops the process when a required setting is missing.
func (c *Config) MustValid() {
	pkgcfg.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	pkgcfg.MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	if c.Storage.Driver == "sftp" {
		pkgcfg.MustNonEmpty(c.Storage.SFTPAddr, "SFTP_ADDR")
		pkgcfg.MustNonEmpty(c.Storage.SFTPUser, "SFTP_USER")
		pkgcfg.MustNonEmpty(c.Storage.SFTPKnownHosts, "SFTP_KNOWN_HOSTS")
	}
}
