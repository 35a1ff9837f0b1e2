package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/domain/matching"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Extractor ExtractorConfig
	Queue     QueueConfig
	Scoring   ScoringConfig
	Log       LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	WSPort      string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != "" && c.DBName != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret string
}

type ExtractorConfig struct {
	BaseURL string
	Timeout time.Duration
}

const (
	QueueDriverMemory = "memory"
	QueueDriverAMQP   = "amqp"
)

type QueueConfig struct {
	Driver      string
	AMQPURL     string
	QueueName   string
	Workers     int
	Buffer      int
	RatePerSec  int
	TaskTimeout time.Duration
}

type ScoringConfig struct {
	Weights            matching.Weights
	ShortlistThreshold int
	MaxCandidates      int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the process environment, after applying an optional .env file.
func Load() (Config, error) {
	v := newViper()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		WSPort:      opt("WS_PORT"),
	}

	cfg.Database = databaseConfig(v)

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{AccessSecret: req("JWT_ACCESS_SECRET")}

	cfg.Extractor = ExtractorConfig{
		BaseURL: opt("EXTRACTOR_BASE_URL"),
		Timeout: v.GetDuration("EXTRACTOR_TIMEOUT"),
	}

	cfg.Queue = QueueConfig{
		Driver:      strings.ToLower(opt("QUEUE_DRIVER")),
		AMQPURL:     opt("AMQP_URL"),
		QueueName:   opt("AMQP_QUEUE"),
		Workers:     v.GetInt("QUEUE_WORKERS"),
		Buffer:      v.GetInt("QUEUE_BUFFER"),
		RatePerSec:  v.GetInt("QUEUE_RATE_PER_SEC"),
		TaskTimeout: v.GetDuration("QUEUE_TASK_TIMEOUT"),
	}

	cfg.Scoring = scoringConfig(v)

	cfg.Log = LogConfig{
		JSON:  v.GetBool("LOG_JSON"),
		Debug: v.GetBool("LOG_DEBUG"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database section. DB_HOST and DB_NAME are
// required.
func LoadDatabase() (DatabaseConfig, error) {
	cfg := databaseConfig(newViper())
	if !cfg.Enabled() {
		return DatabaseConfig{}, fmt.Errorf("%w: DB_HOST, DB_NAME", errMissingRequiredEnv)
	}
	return cfg, nil
}

// LoadScoring reads only the scoring section.
func LoadScoring() (ScoringConfig, error) {
	cfg := scoringConfig(newViper())
	if err := cfg.validate(); err != nil {
		return ScoringConfig{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func databaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		DBHost:                strings.TrimSpace(v.GetString("DB_HOST")),
		DBPort:                strings.TrimSpace(v.GetString("DB_PORT")),
		DBName:                strings.TrimSpace(v.GetString("DB_NAME")),
		DBUser:                strings.TrimSpace(v.GetString("DB_USER")),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBSSLMode:             strings.TrimSpace(v.GetString("DB_SSL_MODE")),
		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}
}

func scoringConfig(v *viper.Viper) ScoringConfig {
	return ScoringConfig{
		Weights: matching.Weights{
			Skills:     v.GetInt("SCORING_WEIGHT_SKILLS"),
			Experience: v.GetInt("SCORING_WEIGHT_EXPERIENCE"),
			Education:  v.GetInt("SCORING_WEIGHT_EDUCATION"),
			Resume:     v.GetInt("SCORING_WEIGHT_RESUME"),
		},
		ShortlistThreshold: v.GetInt("SCORING_SHORTLIST_THRESHOLD"),
		MaxCandidates:      v.GetInt("SCORING_MAX_CANDIDATES"),
	}
}

func setDefaults(v *viper.Viper) {
	d := matching.DefaultWeights()

	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", 10*time.Minute)
	v.SetDefault("EXTRACTOR_TIMEOUT", 30*time.Second)
	v.SetDefault("QUEUE_DRIVER", QueueDriverMemory)
	v.SetDefault("AMQP_QUEUE", "resume_analysis")
	v.SetDefault("QUEUE_WORKERS", 4)
	v.SetDefault("QUEUE_BUFFER", 256)
	v.SetDefault("QUEUE_TASK_TIMEOUT", 2*time.Minute)
	v.SetDefault("SCORING_WEIGHT_SKILLS", d.Skills)
	v.SetDefault("SCORING_WEIGHT_EXPERIENCE", d.Experience)
	v.SetDefault("SCORING_WEIGHT_EDUCATION", d.Education)
	v.SetDefault("SCORING_WEIGHT_RESUME", d.Resume)
	v.SetDefault("SCORING_SHORTLIST_THRESHOLD", matching.DefaultShortlistThreshold)
	v.SetDefault("SCORING_MAX_CANDIDATES", 500)
}

func (c ScoringConfig) validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errInvalidEnv, err)
	}
	if c.ShortlistThreshold < 0 || c.ShortlistThreshold > 100 {
		return fmt.Errorf("%w: SCORING_SHORTLIST_THRESHOLD must be within 0-100", errInvalidEnv)
	}
	return nil
}

func (c Config) validate() error {
	if err := c.Scoring.validate(); err != nil {
		return err
	}
	switch c.Queue.Driver {
	case QueueDriverMemory:
	case QueueDriverAMQP:
		if c.Queue.AMQPURL == "" {
			return fmt.Errorf("%w: AMQP_URL is required when QUEUE_DRIVER=amqp", errInvalidEnv)
		}
	default:
		return fmt.Errorf("%w: unknown QUEUE_DRIVER %q", errInvalidEnv, c.Queue.Driver)
	}
	return nil
}
