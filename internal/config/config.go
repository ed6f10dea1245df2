package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // e.g. "development", "production"
}

// LoggerConfig configures the log level of the service.
type LoggerConfig struct {
	Level string `yaml:"level"` // e.g. "info", "debug", "warn", "error"
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address"` // e.g. ":8080"
}

// OpenAIConfig holds the credentials and model names for the OpenAI provider.
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// GeminiConfig holds the credentials and model names for the Gemini provider.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// OllamaConfig holds the connection settings for a local Ollama server.
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // defaults to http://localhost:11434 when empty
	Model   string `yaml:"model"`
}

// LLMConfig selects and configures the chat-completion provider.
type LLMConfig struct {
	Provider string       `yaml:"provider"` // "openai", "gemini" or "ollama"
	OpenAI   OpenAIConfig `yaml:"openai"`
	Gemini   GeminiConfig `yaml:"gemini"`
	Ollama   OllamaConfig `yaml:"ollama"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider string       `yaml:"provider"` // "openai", "google" or "ollama"
	OpenAI   OpenAIConfig `yaml:"openai"`
	Google   GeminiConfig `yaml:"google"`
	Ollama   OllamaConfig `yaml:"ollama"`
}

// MilvusConfig configures the Milvus connection and the fact collection.
type MilvusConfig struct {
	Address        string `yaml:"address"`
	CollectionName string `yaml:"collectionName"`
	Dim            int    `yaml:"dim"`       // embedding dimension of the vector field
	NList          int    `yaml:"nlist"`     // IVF_FLAT index parameter
	MaxLength      int    `yaml:"maxLength"` // max length for VarChar fields
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DatabaseConfigs groups all backing-store configuration.
type DatabaseConfigs struct {
	Milvus  MilvusConfig `yaml:"milvus"`
	Redis   RedisConfig  `yaml:"redis"`
	MongoDB MongoConfig  `yaml:"mongodb"`
}

// KnowledgeConfig tunes the consolidation and retrieval engines.
type KnowledgeConfig struct {
	SearchLimit   int `yaml:"searchLimit"`   // candidates fetched per index query (default 10)
	ContextSize   int `yaml:"contextSize"`   // facts kept for the answer context (default 3)
	HistoryWindow int `yaml:"historyWindow"` // transcript lines passed to the oracle (default 5)
}

// TranscriptConfig selects the conversation transcript backend.
type TranscriptConfig struct {
	Provider   string `yaml:"provider"`   // "redis" or "mongo"
	Collection string `yaml:"collection"` // mongo collection name
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Logger     LoggerConfig     `yaml:"logger"`
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Databases  DatabaseConfigs  `yaml:"databases"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	// Expand ${VAR} references so secrets can stay out of the file.
	expanded := os.ExpandEnv(string(yamlFile))
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Knowledge.SearchLimit <= 0 {
		c.Knowledge.SearchLimit = 10
	}
	if c.Knowledge.ContextSize <= 0 {
		c.Knowledge.ContextSize = 3
	}
	if c.Knowledge.HistoryWindow <= 0 {
		c.Knowledge.HistoryWindow = 5
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Transcript.Collection == "" {
		c.Transcript.Collection = "conversations"
	}
}
