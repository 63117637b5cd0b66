package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"answerbase/agent"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(zap.NewNop(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "bm25", cfg.AgentType)
	assert.Empty(t, cfg.KnowledgePath)
	assert.Equal(t, 2, cfg.FuzzyMaxDistance)
	assert.Equal(t, 1.2, cfg.BM25K1)
	assert.Equal(t, 0.75, cfg.BM25B)
	assert.Equal(t, []string{"en"}, cfg.StopwordLanguages)
	assert.Equal(t, 3, cfg.ContextMaxItems)
	assert.Equal(t, "qa", cfg.ContextFormat)
	assert.Equal(t, 0, cfg.PredictionCacheSize)
	assert.Equal(t, 50, cfg.PDFMinChunkSize)
	assert.Equal(t, 1000, cfg.PDFMaxChunkSize)
	assert.Equal(t, 200, cfg.PDFChunkOverlap)
	assert.True(t, cfg.PDFIncludeMetadata)
	assert.True(t, cfg.ColorOutput)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answerbase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
AGENT_TYPE: fuzzy
FUZZY_MAX_DISTANCE: 1
CONTEXT_FORMAT: list
STOPWORD_LANGUAGES: [en, de]
`), 0o644))

	t.Setenv("FUZZY_MAX_DISTANCE", "4")
	t.Setenv("PREDICTION_CACHE_SIZE", "64")

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "fuzzy", cfg.AgentType)
	assert.Equal(t, 4, cfg.FuzzyMaxDistance, "environment wins over the file")
	assert.Equal(t, "list", cfg.ContextFormat)
	assert.Equal(t, []string{"en", "de"}, cfg.StopwordLanguages)
	assert.Equal(t, 64, cfg.PredictionCacheSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAgentOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENT_TYPE", "context")
	t.Setenv("FUZZY_MAX_DISTANCE", "-1")
	t.Setenv("FUZZY_THRESHOLD_FACTOR", "0.25")
	t.Setenv("CONTEXT_FORMAT", "sentence")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	strategy, opts, err := cfg.AgentOptions(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, agent.StrategyContext, strategy)
	assert.Nil(t, opts.Fuzzy.MaxDistance)
	require.NotNil(t, opts.Fuzzy.ThresholdFactor)
	assert.Equal(t, 0.25, *opts.Fuzzy.ThresholdFactor)
	assert.Equal(t, agent.FormatSentence, opts.ContextFormat.Kind)
	assert.Equal(t, 3, opts.ContextItems)

	a, err := agent.New(strategy, opts)
	require.NoError(t, err)
	_, ok := a.(agent.Contextual)
	assert.True(t, ok)
}

func TestAgentOptionsKeepsZeroBM25Tuning(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BM25_K1", "0")
	t.Setenv("BM25_B", "0")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	_, opts, err := cfg.AgentOptions(zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, opts.BM25.K1)
	require.NotNil(t, opts.BM25.B)
	assert.Equal(t, 0.0, *opts.BM25.K1)
	assert.Equal(t, 0.0, *opts.BM25.B)
	_, err = agent.New(agent.StrategyBM25, opts)
	assert.NoError(t, err)
}

func TestAgentOptionsRejectsUnknownNames(t *testing.T) {
	cfg := &Config{AgentType: "neural", ContextFormat: "qa"}
	_, _, err := cfg.AgentOptions(nil)
	assert.Error(t, err)

	cfg = &Config{AgentType: "bm25", ContextFormat: "xml"}
	_, _, err = cfg.AgentOptions(nil)
	assert.Error(t, err)
}

func TestPDFConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(nil, "")
	require.NoError(t, err)

	pdf := cfg.PDFConfig()
	assert.NoError(t, pdf.Validate())
	assert.Equal(t, 1000, pdf.MaxChunkSize)
	assert.Equal(t, "punctuation", pdf.Splitter)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))

	logger, err := InitLogger("debug", false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	Cleanup()
}
