package session

import (
	"strings"

	"hermes/internal/domain/portfolio"
)

// commonSuffixes are corporate suffixes stripped when deriving name aliases,
// so "Tesla Inc" also matches plain "tesla".
var commonSuffixes = map[string]struct{}{
	"inc": {}, "inc.": {}, "corp": {}, "corp.": {}, "corporation": {},
	"ltd": {}, "ltd.": {}, "plc": {}, "llc": {}, "co": {}, "co.": {},
	"company": {}, "incorporated": {},
}

// StripCommonSuffixes removes trailing corporate suffixes from a name.
func StripCommonSuffixes(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	for len(parts) > 0 {
		if _, ok := commonSuffixes[parts[len(parts)-1]]; !ok {
			break
		}
		parts = parts[:len(parts)-1]
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// BuildSymbolNameMap derives the ticker -> lower-cased alias list map from
// holdings. Built once at dependency-load time and read-only afterwards.
func BuildSymbolNameMap(holdings []portfolio.Holding) map[string][]string {
	symbolMap := make(map[string][]string, len(holdings))

	for _, h := range holdings {
		symbol := strings.TrimSpace(h.Symbol)
		rawName := strings.TrimSpace(h.SecurityName)
		if symbol == "" || rawName == "" {
			continue
		}

		normalized := strings.ToLower(rawName)
		stripped := StripCommonSuffixes(normalized)

		variations := []string{normalized}
		if stripped != "" && stripped != normalized {
			variations = append(variations, stripped)
		}

		symbolMap[symbol] = variations
	}

	return symbolMap
}

// ReverseSymbolMap builds an alias -> ticker lookup. First writer wins so
// alias collisions stay deterministic given map build order per ticker.
func ReverseSymbolMap(symbolMap map[string][]string) map[string]string {
	reverse := make(map[string]string)
	for ticker, variations := range symbolMap {
		for _, variant := range variations {
			variant = strings.ToLower(strings.TrimSpace(variant))
			if variant == "" {
				continue
			}
			if _, exists := reverse[variant]; !exists {
				reverse[variant] = ticker
			}
		}
	}
	return reverse
}
