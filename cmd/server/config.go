package main

type config struct {
	API              apiConfig              `yaml:"api"`
	ServiceDiscovery serviceDiscoveryConfig `yaml:"serviceDiscovery"`
	Jaeger           jaegerConfig           `yaml:"jaeger"`
	Storage          storageConfig          `yaml:"storage"`
	TMDB             tmdbConfig             `yaml:"tmdb"`
	Kafka            kafkaConfig            `yaml:"kafka"`
	Moderation       moderationConfig       `yaml:"moderation"`
}

type apiConfig struct {
	Port int `yaml:"port"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `yaml:"consul"`
}

type consulConfig struct {
	Address string `yaml:"address"`
}

type jaegerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// storageConfig selects the persistence backend. Backend "local" keeps all
// records in the flat key-value store named by Driver; backend "hosted"
// uses MySQL repositories and the remote auth service for sessions.
type storageConfig struct {
	Backend string      `yaml:"backend"`
	Driver  string      `yaml:"driver"`
	File    fileConfig  `yaml:"file"`
	Redis   redisConfig `yaml:"redis"`
	MySQL   mysqlConfig `yaml:"mysql"`
}

type fileConfig struct {
	Path string `yaml:"path"`
}

type redisConfig struct {
	Address string `yaml:"address"`
}

type mysqlConfig struct {
	DSN string `yaml:"dsn"`
}

type tmdbConfig struct {
	BaseURL   string  `yaml:"baseUrl"`
	APIKeyEnv string  `yaml:"apiKeyEnv"`
	RateLimit float64 `yaml:"rateLimit"`
	Burst     int     `yaml:"burst"`
}

type kafkaConfig struct {
	Address string `yaml:"address"`
	GroupID string `yaml:"groupId"`
	Topic   string `yaml:"topic"`
}

type moderationConfig struct {
	Blocklist []string `yaml:"blocklist"`
}
