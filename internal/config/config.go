package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverGoOra  = "oracle"
	DriverGodror = "godror"
)

type Config struct {
	DB          DBConfig
	Server      ServerConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Quiz        QuizConfig
	Recorder    RecorderConfig
	Leaderboard LeaderboardConfig
	Email       EmailConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoggerConfig selects the zap encoder and level.
type LoggerConfig struct {
	Env   string
	Level string
}

type JWTConfig struct {
	SecretKey       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AuthConfig holds the limits applied to the public login/register routes.
type AuthConfig struct {
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// QuizConfig controls how attempts are built and timed.
type QuizConfig struct {
	TimeLimit         time.Duration
	TickInterval      time.Duration
	QuestionCount     int // 0 means every question in the bank
	Shuffle           bool
	FinishedRetention time.Duration
}

// RecorderConfig controls result persistence retries.
type RecorderConfig struct {
	MaxRetries       int
	RetryBackoff     time.Duration
	PendingTTL       time.Duration
	SweepInterval    time.Duration
	SweepConcurrency int
}

type LeaderboardConfig struct {
	DefaultLimit int
	MaxLimit     int
	HistoryLimit int
	CacheTTL     time.Duration
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

// LoadConfig reads config.yaml from the usual locations and applies env overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./configs")
	}

	return load(v)
}

// LoadConfigFile reads the given file instead of searching for config.yaml.
func LoadConfigFile(path string) (*Config, error) {
	if path == "" {
		return LoadConfig()
	}
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configFile := v.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Driver:          v.GetString("db.driver"),
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			DBName:          v.GetString("db.name"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			Issuer:          v.GetString("jwt.issuer"),
			AccessTokenTTL:  v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt.refresh_token_ttl"),
		},
		Auth: AuthConfig{
			LoginRateLimit:  v.GetInt("auth.login_rate_limit"),
			LoginRateWindow: v.GetDuration("auth.login_rate_window"),
		},
		Quiz: QuizConfig{
			TimeLimit:         v.GetDuration("quiz.time_limit"),
			TickInterval:      v.GetDuration("quiz.tick_interval"),
			QuestionCount:     v.GetInt("quiz.question_count"),
			Shuffle:           v.GetBool("quiz.shuffle"),
			FinishedRetention: v.GetDuration("quiz.finished_retention"),
		},
		Recorder: RecorderConfig{
			MaxRetries:       v.GetInt("recorder.max_retries"),
			RetryBackoff:     v.GetDuration("recorder.retry_backoff"),
			PendingTTL:       v.GetDuration("recorder.pending_ttl"),
			SweepInterval:    v.GetDuration("recorder.sweep_interval"),
			SweepConcurrency: v.GetInt("recorder.sweep_concurrency"),
		},
		Leaderboard: LeaderboardConfig{
			DefaultLimit: v.GetInt("leaderboard.default_limit"),
			MaxLimit:     v.GetInt("leaderboard.max_limit"),
			HistoryLimit: v.GetInt("leaderboard.history_limit"),
			CacheTTL:     v.GetDuration("leaderboard.cache_ttl"),
		},
		Email: EmailConfig{
			ResendAPIKey: v.GetString("email.resend_api_key"),
			From:         v.GetString("email.from"),
		},
	}

	applyEnvOverrides(config)
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", DriverGoOra)
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20*time.Second)
	v.SetDefault("server.write_timeout", 20*time.Second)
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("jwt.issuer", "quiz-arena")
	v.SetDefault("jwt.access_token_ttl", 24*time.Hour)
	v.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", time.Minute)
	v.SetDefault("quiz.time_limit", 600*time.Second)
	v.SetDefault("quiz.tick_interval", time.Second)
	v.SetDefault("quiz.question_count", 0)
	v.SetDefault("quiz.shuffle", false)
	v.SetDefault("quiz.finished_retention", 10*time.Minute)
	v.SetDefault("recorder.max_retries", 3)
	v.SetDefault("recorder.retry_backoff", 200*time.Millisecond)
	v.SetDefault("recorder.pending_ttl", 72*time.Hour)
	v.SetDefault("recorder.sweep_interval", time.Minute)
	v.SetDefault("recorder.sweep_concurrency", 4)
	v.SetDefault("leaderboard.default_limit", 10)
	v.SetDefault("leaderboard.max_limit", 100)
	v.SetDefault("leaderboard.history_limit", 20)
	v.SetDefault("leaderboard.cache_ttl", 30*time.Second)
}

func applyEnvOverrides(config *Config) {
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		config.DB.Driver = driver
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		config.Email.ResendAPIKey = apiKey
	}
}

// GetDSN returns the connection string for the configured Oracle driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == DriverGodror {
		return fmt.Sprintf(`user="%s" password="%s" connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
