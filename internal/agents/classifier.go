package agents

import (
	"context"
	"strings"

	"hermes/internal/adapters/ai"
	"hermes/internal/domain/session"
	"hermes/internal/metrics"
	"hermes/pkg/logger"
)

// Classifier turns free text plus conversation context into a
// ClassificationResult. The deterministic rule pass always runs first; the
// LLM is consulted only when the rules are unsure. Classify never fails:
// every internal error degrades to an unknown-intent result.
type Classifier struct {
	llm       ai.Client
	ner       EntityExtractor
	threshold float64
	log       *logger.Logger
}

// NewClassifier creates a classifier. threshold is the confidence below
// which the LLM fallback fires; ner may be nil.
func NewClassifier(llm ai.Client, ner EntityExtractor, threshold float64) *Classifier {
	if ner == nil {
		ner = NoopEntityExtractor{}
	}
	return &Classifier{
		llm:       llm,
		ner:       ner,
		threshold: threshold,
		log:       logger.Get().With("component", "classifier"),
	}
}

// Classify runs the rule pass, then escalates to the LLM iff the intent is
// unknown or the confidence is below threshold.
func (c *Classifier) Classify(ctx context.Context, query, history string, symbolMap map[string][]string) ClassificationResult {
	result := c.ruleClassify(ctx, query, symbolMap)

	if result.Intent != IntentUnknown && result.Confidence >= c.threshold {
		return result
	}

	metrics.IncLLMFallback("classifier")
	if llmResult, ok := c.llmClassify(ctx, query, history, symbolMap); ok {
		return llmResult
	}
	return result
}

// ruleClassify is the cheap deterministic pass: keyword intent, table
// confidence, three-way entity detection.
func (c *Classifier) ruleClassify(ctx context.Context, query string, symbolMap map[string][]string) ClassificationResult {
	lowered := strings.ToLower(query)
	intent := ruleIntent(lowered)
	confidence := intentConfidence[intent]

	entities, rawDetections := extractEntities(ctx, query, symbolMap, c.ner)
	if entities == nil {
		entities = []string{}
	}

	// Raw mentions that resolved to nothing mean entity grounding failed;
	// treat the whole classification as low-confidence.
	if len(entities) == 0 && rawDetections > 0 {
		confidence = 0.5
	}

	return ClassificationResult{Intent: intent, Entities: entities, Confidence: confidence}
}

func (c *Classifier) llmClassify(ctx context.Context, query, history string, symbolMap map[string][]string) (ClassificationResult, bool) {
	var decoded struct {
		Intent     string   `json:"intent"`
		Entities   []string `json:"entities"`
		Confidence float64  `json:"confidence"`
	}

	prompt := classificationPrompt(query, history, symbolMap)
	if err := c.llm.GenerateJSON(ctx, prompt, &decoded); err != nil {
		c.log.Warnw("llm classification failed, keeping rule result", "error", err)
		return ClassificationResult{}, false
	}

	intent := Intent(strings.ToLower(strings.TrimSpace(decoded.Intent)))
	switch intent {
	case IntentPortfolio, IntentMarket, IntentHybrid:
	default:
		return ClassificationResult{}, false
	}

	reverse := session.ReverseSymbolMap(symbolMap)
	seen := make(map[string]struct{})
	entities := make([]string, 0, len(decoded.Entities))
	for _, e := range decoded.Entities {
		ticker, ok := resolveTicker(e, symbolMap, reverse)
		if !ok {
			continue
		}
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}
		entities = append(entities, ticker)
	}

	confidence := decoded.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return ClassificationResult{Intent: intent, Entities: entities, Confidence: confidence}, true
}
