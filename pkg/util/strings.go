package util

import "strings"

// coinAliases maps ticker symbols to CoinGecko coin ids.
var coinAliases = map[string]string{
	"btc": "bitcoin",
	"eth": "ethereum",
	"sol": "solana",
	"sei": "sei",
}

// CanonicalCoinID lower-cases id and resolves a known ticker to its coin id.
func CanonicalCoinID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if alias, ok := coinAliases[id]; ok {
		return alias
	}
	return id
}
