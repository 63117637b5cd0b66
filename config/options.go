package config

import (
	"fmt"

	"go.uber.org/zap"

	"answerbase/agent"
	"answerbase/pdfloader"
)

// AgentOptions translates the agent settings into the strategy and its construction options.
func (c *Config) AgentOptions(logger *zap.Logger) (agent.Strategy, agent.Options, error) {
	strategy, err := agent.ParseStrategy(c.AgentType)
	if err != nil {
		return "", agent.Options{}, err
	}
	format, err := agent.ParseContextFormat(c.ContextFormat)
	if err != nil {
		return "", agent.Options{}, fmt.Errorf("CONTEXT_FORMAT: %w", err)
	}

	var fuzzy agent.FuzzyOptions
	if c.FuzzyMaxDistance >= 0 {
		d := c.FuzzyMaxDistance
		fuzzy.MaxDistance = &d
	}
	if c.FuzzyThresholdFactor > 0 {
		f := c.FuzzyThresholdFactor
		fuzzy.ThresholdFactor = &f
	}

	// viper always supplies BM25_K1 and BM25_B, so zero is an explicit setting
	k1, b := c.BM25K1, c.BM25B
	return strategy, agent.Options{
		Logger: logger,
		Fuzzy:  fuzzy,
		BM25: agent.BM25Options{
			K1:        &k1,
			B:         &b,
			Languages: c.StopwordLanguages,
		},
		ContextItems:  c.ContextMaxItems,
		ContextFormat: format,
		CacheSize:     c.PredictionCacheSize,
	}, nil
}

// PDFConfig returns the chunking settings for pdfloader.
func (c *Config) PDFConfig() pdfloader.Config {
	return pdfloader.Config{
		MinChunkSize:    c.PDFMinChunkSize,
		MaxChunkSize:    c.PDFMaxChunkSize,
		ChunkOverlap:    c.PDFChunkOverlap,
		DefaultWeight:   c.PDFDefaultWeight,
		IncludeMetadata: c.PDFIncludeMetadata,
		SplitBySentence: c.PDFSplitBySentence,
		Splitter:        c.PDFSentenceSplitter,
	}
}
