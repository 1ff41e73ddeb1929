package domain

// Pair represents one trading venue for a token, normalized from the
// DexScreener pair payload at the client boundary.
type Pair struct {
	ChainID      string  // "bsc", "base", "arbitrum", ...
	DexID        string  // DEX identifier ("pancakeswap", "uniswap", ...)
	PairAddress  string  // pair contract address
	BaseSymbol   string  // base token symbol
	QuoteSymbol  string  // quote token symbol
	PriceUSD     float64 // current price in USD
	LiquidityUSD float64 // pooled liquidity in USD
	Volume24hUSD float64 // 24h trading volume in USD
	CreatedAt    int64   // pair creation timestamp (Unix ms), 0 if unknown
}

// MainPair returns the pair with the highest USD liquidity, ties broken by
// first encounter. Returns false if the list is empty.
func MainPair(pairs []Pair) (Pair, bool) {
	if len(pairs) == 0 {
		return Pair{}, false
	}
	main := pairs[0]
	for _, p := range pairs[1:] {
		if p.LiquidityUSD > main.LiquidityUSD {
			main = p
		}
	}
	return main, true
}

// TotalLiquidityUSD sums liquidity across all pairs.
func TotalLiquidityUSD(pairs []Pair) float64 {
	var total float64
	for _, p := range pairs {
		total += p.LiquidityUSD
	}
	return total
}
