package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	ML        MLConfig        `mapstructure:"ml"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Business  BusinessConfig  `mapstructure:"business"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

type MLConfig struct {
	SimilarityThreshold float64  `mapstructure:"similarity_threshold"`
	MinTrainingExamples int      `mapstructure:"min_training_examples"`
	AutoTrainThreshold  int      `mapstructure:"auto_train_threshold"`
	ClassifierModel     string   `mapstructure:"classifier_model"`
	SeedPositive        []string `mapstructure:"seed_positive"`
	SeedNegative        []string `mapstructure:"seed_negative"`
}

type FilterConfig struct {
	MinMessageLength int      `mapstructure:"min_message_length"`
	BlacklistWords   []string `mapstructure:"blacklist_words"`
	ForwardPatterns  []string `mapstructure:"forward_patterns"`
}

type BusinessConfig struct {
	Domain              string   `mapstructure:"domain"`
	Keywords            []string `mapstructure:"keywords"`
	FullCyclePhrases    []string `mapstructure:"full_cycle_phrases"`
	PlanningTerms       []string `mapstructure:"planning_terms"`
	ProductionTerms     []string `mapstructure:"production_terms"`
	CompletionTerms     []string `mapstructure:"completion_terms"`
	CompletenessMarkers []string `mapstructure:"completeness_markers"`
	TargetChatIDs       []int64  `mapstructure:"target_chat_ids"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RetentionConfig struct {
	Days int `mapstructure:"days"`
}

// Load reads configuration from file and environment variables.
// An empty configPath falls back to ./configs/config.yaml or ./config.yaml.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("embedding.api_key", "EMBEDDING_API_KEY")
	v.BindEnv("embedding.base_url", "EMBEDDING_BASE_URL")
	v.BindEnv("embedding.model", "EMBEDDING_MODEL")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/leadscout.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.dimensions", 384)

	v.SetDefault("ml.similarity_threshold", 0.7)
	v.SetDefault("ml.min_training_examples", 3)
	v.SetDefault("ml.auto_train_threshold", 2)
	v.SetDefault("ml.classifier_model", "production_classifier")
	v.SetDefault("ml.seed_positive", []string{})
	v.SetDefault("ml.seed_negative", []string{})

	v.SetDefault("filter.min_message_length", 5)
	v.SetDefault("filter.blacklist_words", []string{})
	v.SetDefault("filter.forward_patterns", []string{
		"forwarded message",
		"forwarded from",
		"message was forwarded",
	})

	v.SetDefault("business.domain", "general")
	v.SetDefault("business.keywords", []string{})
	v.SetDefault("business.full_cycle_phrases", []string{
		"full cycle",
		"turnkey",
		"end-to-end",
		"from concept to",
		"from idea to",
	})
	v.SetDefault("business.planning_terms", []string{
		"concept", "idea", "planning", "strategy", "analysis", "research",
	})
	v.SetDefault("business.production_terms", []string{
		"production", "creation", "development", "implementation", "execution",
	})
	v.SetDefault("business.completion_terms", []string{
		"completion", "ready", "final", "delivery", "result",
	})
	v.SetDefault("business.completeness_markers", []string{
		"full", "comprehensive", "turnkey",
	})
	v.SetDefault("business.target_chat_ids", []int64{})

	v.SetDefault("telegram.enabled", true)

	v.SetDefault("retention.days", 30)
}

// Validate reports configuration problems that prevent a useful deployment.
func (c *Config) Validate() []string {
	var errs []string

	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		errs = append(errs, "telegram.bot_token is not set")
	}
	if len(c.Business.Keywords) == 0 {
		errs = append(errs, "business.keywords is empty")
	}
	if c.Telegram.Enabled && len(c.Business.TargetChatIDs) == 0 {
		errs = append(errs, "business.target_chat_ids is empty")
	}
	if c.ML.SimilarityThreshold < 0 || c.ML.SimilarityThreshold > 1 {
		errs = append(errs, "ml.similarity_threshold must be between 0 and 1")
	}
	if c.Filter.MinMessageLength < 1 {
		errs = append(errs, "filter.min_message_length must be greater than 0")
	}

	return errs
}
