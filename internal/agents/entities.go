package agents

import (
	"context"
	"sort"
	"strings"

	"hermes/internal/domain/session"
)

// EntityExtractor is a general named-entity recognizer. Implementations
// return surface strings for the requested label classes; they do not
// resolve tickers.
type EntityExtractor interface {
	Extract(ctx context.Context, text string, labels []string) ([]string, error)
}

// nerLabels restricts general NER to the classes that can plausibly name a
// security.
var nerLabels = []string{"ORG", "PRODUCT", "LOC", "PERSON"}

// NoopEntityExtractor detects nothing. Ticker regex and alias matching
// carry entity detection when no NER backend is configured.
type NoopEntityExtractor struct{}

func (NoopEntityExtractor) Extract(context.Context, string, []string) ([]string, error) {
	return nil, nil
}

// extractEntities detects candidate mentions and normalizes them to
// canonical tickers. Detection runs three independent passes (ticker
// regex, alias substrings, general NER) whose union is then resolved
// against the symbol map; anything that does not resolve is dropped.
// It returns the normalized set and the raw detection count.
func extractEntities(ctx context.Context, query string, symbolMap map[string][]string, ner EntityExtractor) ([]string, int) {
	raw := make(map[string]struct{})

	// ALL-CAPS tokens that are actual portfolio tickers.
	for _, token := range tickerPattern.FindAllString(query, -1) {
		if _, ok := symbolMap[token]; ok {
			raw[token] = struct{}{}
		}
	}

	// Company-name aliases mentioned anywhere in the query.
	lowered := strings.ToLower(query)
	for ticker, aliases := range symbolMap {
		for _, alias := range aliases {
			if alias != "" && strings.Contains(lowered, strings.ToLower(alias)) {
				raw[ticker] = struct{}{}
				break
			}
		}
	}

	// General NER over the raw query.
	if ner != nil {
		mentions, err := ner.Extract(ctx, query, nerLabels)
		if err == nil {
			for _, m := range mentions {
				if m != "" {
					raw[m] = struct{}{}
				}
			}
		}
	}

	reverse := session.ReverseSymbolMap(symbolMap)

	normalized := make(map[string]struct{})
	for detection := range raw {
		if ticker, ok := resolveTicker(detection, symbolMap, reverse); ok {
			normalized[ticker] = struct{}{}
		}
	}

	out := make([]string, 0, len(normalized))
	for ticker := range normalized {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out, len(raw)
}

// resolveTicker maps a detected string to a canonical ticker by direct
// symbol match or alias reverse-lookup.
func resolveTicker(detection string, symbolMap map[string][]string, reverse map[string]string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(detection))
	if _, ok := symbolMap[upper]; ok {
		return upper, true
	}

	key := strings.ToLower(session.StripCommonSuffixes(detection))
	if ticker, ok := reverse[key]; ok {
		return ticker, true
	}
	return "", false
}
