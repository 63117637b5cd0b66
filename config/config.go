package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration.
type Config struct {
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	KnowledgePath string `mapstructure:"KNOWLEDGE_PATH"`
	AgentType     string `mapstructure:"AGENT_TYPE"`

	FuzzyMaxDistance     int     `mapstructure:"FUZZY_MAX_DISTANCE"`
	FuzzyThresholdFactor float64 `mapstructure:"FUZZY_THRESHOLD_FACTOR"`

	BM25K1              float64  `mapstructure:"BM25_K1"`
	BM25B               float64  `mapstructure:"BM25_B"`
	StopwordLanguages   []string `mapstructure:"STOPWORD_LANGUAGES"`
	ContextMaxItems     int      `mapstructure:"CONTEXT_MAX_ITEMS"`
	ContextFormat       string   `mapstructure:"CONTEXT_FORMAT"`
	PredictionCacheSize int      `mapstructure:"PREDICTION_CACHE_SIZE"`

	PDFMinChunkSize     int     `mapstructure:"PDF_MIN_CHUNK_SIZE"`
	PDFMaxChunkSize     int     `mapstructure:"PDF_MAX_CHUNK_SIZE"`
	PDFChunkOverlap     int     `mapstructure:"PDF_CHUNK_OVERLAP"`
	PDFDefaultWeight    float64 `mapstructure:"PDF_DEFAULT_WEIGHT"`
	PDFIncludeMetadata  bool    `mapstructure:"PDF_INCLUDE_METADATA"`
	PDFSplitBySentence  bool    `mapstructure:"PDF_SPLIT_BY_SENTENCE"`
	PDFSentenceSplitter string  `mapstructure:"PDF_SENTENCE_SPLITTER"`

	ColorOutput bool `mapstructure:"COLOR_OUTPUT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("KNOWLEDGE_PATH", "")
	v.SetDefault("AGENT_TYPE", "bm25")
	v.SetDefault("FUZZY_MAX_DISTANCE", 2)
	v.SetDefault("FUZZY_THRESHOLD_FACTOR", 0.0)
	v.SetDefault("BM25_K1", 1.2)
	v.SetDefault("BM25_B", 0.75)
	v.SetDefault("STOPWORD_LANGUAGES", []string{"en"})
	v.SetDefault("CONTEXT_MAX_ITEMS", 3)
	v.SetDefault("CONTEXT_FORMAT", "qa")
	v.SetDefault("PREDICTION_CACHE_SIZE", 0)
	v.SetDefault("PDF_MIN_CHUNK_SIZE", 50)
	v.SetDefault("PDF_MAX_CHUNK_SIZE", 1000)
	v.SetDefault("PDF_CHUNK_OVERLAP", 200)
	v.SetDefault("PDF_DEFAULT_WEIGHT", 1.0)
	v.SetDefault("PDF_INCLUDE_METADATA", true)
	v.SetDefault("PDF_SPLIT_BY_SENTENCE", true)
	v.SetDefault("PDF_SENTENCE_SPLITTER", "punctuation")
	v.SetDefault("COLOR_OUTPUT", true)
}

// Load reads configuration from defaults, an optional YAML file and the environment, in
// increasing order of precedence. With an empty path, config.yaml is looked up in the
// working directory and ./config; a missing file is not an error. An explicit path must exist.
func Load(logger *zap.Logger, path string) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Debug("No config file found, using defaults and environment")
	} else {
		logger.Debug("Config file loaded", zap.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cleaned := make([]string, 0, len(cfg.StopwordLanguages))
	for _, lang := range cfg.StopwordLanguages {
		if lang = strings.TrimSpace(lang); lang != "" {
			cleaned = append(cleaned, lang)
		}
	}
	cfg.StopwordLanguages = cleaned
	return &cfg, nil
}
