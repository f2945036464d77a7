package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	RoomRedis  RoomRedisConfig  `mapstructure:"roomredis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Indexer    IndexerConfig    `mapstructure:"indexer"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	Description string `mapstructure:"description"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type ChainConfig struct {
	RPCURLs             []string `mapstructure:"rpc_urls"`
	ChainID             int64    `mapstructure:"chain_id"`
	BettingRoomsAddress string   `mapstructure:"betting_rooms_address"`
	TokenAddress        string   `mapstructure:"token_address"`
	StartBlock          uint64   `mapstructure:"start_block"`
	LogChunk            uint64   `mapstructure:"log_chunk"`
}

type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Port     string `mapstructure:"port"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RoomRedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type AggregatorConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Top3Split   string `mapstructure:"top3_split"`
}

type IndexerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Read loads config.yaml (if present) and applies BET_* environment overrides.
func Read() Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")
	v.AddConfigPath("/")

	setDefaults(v)

	// BET_CHAIN_RPC_URLS, BET_WALLET_PRIVATE_KEY, ...
	v.SetEnvPrefix("BET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		zap.L().Warn("Failed to read configuration file", zap.Error(err))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		zap.L().Error("Configuration could not be parsed", zap.Error(err))
	}

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "betting-service")
	v.SetDefault("app.version", "0.1.0")

	v.SetDefault("server.port", "8082")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.cors_origins", "http://localhost:5173")

	v.SetDefault("chain.rpc_urls", []string{
		"https://rpc.sepolia.org",
		"https://ethereum-sepolia.publicnode.com",
	})
	v.SetDefault("chain.chain_id", 11155111)
	v.SetDefault("chain.start_block", 0)
	v.SetDefault("chain.log_chunk", 5000)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.user", "myuser")
	v.SetDefault("postgres.password", "mypassword")
	v.SetDefault("postgres.db", "bettingdb")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("roomredis.enabled", false)
	v.SetDefault("roomredis.host", "localhost")
	v.SetDefault("roomredis.port", "6379")
	v.SetDefault("roomredis.db", 0)
	v.SetDefault("roomredis.ttl", 5*time.Second)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "betting-events")

	v.SetDefault("ratelimit.requests_per_minute", 600)
	v.SetDefault("ratelimit.burst", 60)

	v.SetDefault("aggregator.concurrency", 4)
	v.SetDefault("aggregator.top3_split", "ranked")

	v.SetDefault("indexer.enabled", false)
	v.SetDefault("indexer.poll_interval", 15*time.Second)
}
