package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Storage       StorageConfig       `yaml:"storage"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Uploads       UploadsConfig       `yaml:"uploads"`
	Directory     DirectoryConfig     `yaml:"directory"`
	Workers       WorkersConfig       `yaml:"workers"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Password          string `yaml:"password"`
	DB                int    `yaml:"db"`
	PoolSize          int    `yaml:"pool_size"`
	NotificationQueue string `yaml:"notification_queue"`
	DLQSuffix         string `yaml:"dlq_suffix"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type NotificationsConfig struct {
	SubjectPrefix   string   `yaml:"subject_prefix"`
	StaffRecipients []string `yaml:"staff_recipients"`
	MaxAttachBytes  int64    `yaml:"max_attach_bytes"`
	MaxMessageBytes int64    `yaml:"max_message_bytes"`
	MaxNoteChars    int      `yaml:"max_note_chars"`
}

type UploadsConfig struct {
	MaxFileBytes        int64         `yaml:"max_file_bytes"`
	AllowedContentTypes []string      `yaml:"allowed_content_types"`
	UploadURLLifetime   time.Duration `yaml:"upload_url_lifetime"`
	ReadURLLifetimeDays int           `yaml:"read_url_lifetime_days"`
}

type DirectoryConfig struct {
	BaseURL         string        `yaml:"base_url"`
	AuthEndpoint    string        `yaml:"auth_endpoint"`
	ProfileEndpoint string        `yaml:"profile_endpoint"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	TokenExpires    time.Duration `yaml:"token_expires"`
	Timeout         time.Duration `yaml:"timeout"`
}

type WorkersConfig struct {
	Notification NotificationWorkerConfig `yaml:"notification"`
}

type NotificationWorkerConfig struct {
	Count int `yaml:"count"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Notifications.MaxNoteChars == 0 {
		c.Notifications.MaxNoteChars = 500
	}
	if c.Notifications.MaxAttachBytes == 0 {
		c.Notifications.MaxAttachBytes = 5 << 20
	}
	if c.Notifications.MaxMessageBytes == 0 {
		c.Notifications.MaxMessageBytes = 20 << 20
	}
	if c.Uploads.MaxFileBytes == 0 {
		c.Uploads.MaxFileBytes = 25 << 20
	}
	if c.Uploads.UploadURLLifetime == 0 {
		c.Uploads.UploadURLLifetime = 15 * time.Minute
	}
	if c.Uploads.ReadURLLifetimeDays == 0 {
		c.Uploads.ReadURLLifetimeDays = 7
	}
	if c.Workers.Notification.Count == 0 {
		c.Workers.Notification.Count = 2
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) ReadURLLifetime() time.Duration {
	return time.Duration(c.Uploads.ReadURLLifetimeDays) * 24 * time.Hour
}
