package config

import (
	"catalog/models"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultConfigPath = "config/config.yaml"

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type AuthConfig struct {
	PublicKeyPath   string `yaml:"public_key_path"`
	SessionSecret   string `yaml:"session_secret"`
	AllowedStatuses []int  `yaml:"allowed_statuses"`
}

type ViewConfig struct {
	// html、json或negotiate
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	View     ViewConfig     `yaml:"view"`
	Log      LogConfig      `yaml:"log"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":3000", Mode: "release"},
		Auth: AuthConfig{
			PublicKeyPath:   "jwt/public_key.pem",
			AllowedStatuses: []int{int(models.StatusAdmin)},
		},
		View: ViewConfig{Mode: "negotiate"},
		Log:  LogConfig{Level: "info", Format: "json"},
	}
}

func LoadConfig(filename string) (Config, error) {
	config := defaultConfig()
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	//空的設定檔沿用預設值
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, errors.Wrapf(err, "parse %s", filename)
	}

	applyEnv(&config)
	return config, nil
}

// Load 先讀取.env，再讀取CONFIG_PATH指定的設定檔
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadConfig(path)
}

// 機密設定可由環境變數覆蓋
func applyEnv(config *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		config.Auth.SessionSecret = v
	}
}

func (c Config) AllowedStatuses() []models.UserStatus {
	statuses := make([]models.UserStatus, 0, len(c.Auth.AllowedStatuses))
	for _, s := range c.Auth.AllowedStatuses {
		statuses = append(statuses, models.UserStatus(s))
	}
	return statuses
}

func NewLogger(config LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if config.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func gormLogLevel(level logrus.Level) logger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return logger.Info
	case level >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

func SetupMySQLConnection(config DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(log.GetLevel())),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Product{},
		&models.User{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func SetupRedisConnection(config RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.Database,
	})
}
