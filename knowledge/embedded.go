package knowledge

import (
	_ "embed"
	"sync"

	"answerbase/agent"
)

//go:embed data/train.json
var embeddedTrainJSON []byte

var embedded = sync.OnceValues(func() ([]agent.TrainingExample, error) {
	kb, err := Parse(embeddedTrainJSON)
	if err != nil {
		return nil, err
	}
	return kb.examples, nil
})

// FromEmbedded returns a knowledge base holding the compiled-in examples.
func FromEmbedded() (*KnowledgeBase, error) {
	examples, err := embedded()
	if err != nil {
		return nil, err
	}
	kb := New()
	kb.examples = append(kb.examples, examples...)
	return kb, nil
}
