package models

// SymbolCategory groups symbols for the catalog endpoint.
type SymbolCategory string

const (
	CategoryStocks      SymbolCategory = "actions"
	CategoryETFs        SymbolCategory = "etfs"
	CategoryForex       SymbolCategory = "forex"
	CategoryCommodities SymbolCategory = "commodities"
	CategoryCrypto      SymbolCategory = "crypto"
)

// SymbolsByCategory returns a fresh copy of the built-in symbol catalog.
func SymbolsByCategory() map[SymbolCategory][]string {
	return map[SymbolCategory][]string{
		CategoryStocks: {
			"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
			"JPM", "JNJ", "V", "PG", "UNH", "HD", "MA", "DIS", "BAC", "ADBE",
			"CRM", "KO", "PFE", "WMT", "MRK", "CSCO", "INTC", "ORCL",
			"TMO", "ABBV", "DHR", "ACN", "CMCSA", "PGR", "COST", "VZ", "BMY",
			"NEE", "LLY", "AVGO", "TXN", "UNP", "MDT", "LIN", "QCOM", "AMGN",
			"HON", "PM", "RTX", "DE", "LOW", "IBM", "CVX", "T", "SBUX", "AMD",
		},
		CategoryETFs: {
			"SPY", "QQQ", "IWM", "VTI", "VXUS", "EFA", "EEM", "AGG", "TLT",
			"GLD", "SLV", "VNQ", "XLF", "XLK", "XLE", "XLU", "XLI", "XLP",
			"XLY", "XLV", "XLB", "XLRE",
		},
		CategoryForex: {
			"EURUSD=X", "GBPUSD=X", "USDJPY=X", "USDCHF=X", "AUDUSD=X", "USDCAD=X",
			"NZDUSD=X", "EURJPY=X", "GBPJPY=X", "EURGBP=X",
		},
		CategoryCommodities: {
			"GC=F", "CL=F", "SI=F", "PL=F", "NG=F", "ZB=F", "ZN=F", "ZF=F",
		},
		CategoryCrypto: {
			"BTC-USD", "ETH-USD", "ADA-USD", "DOGE-USD", "XRP-USD", "DOT-USD",
			"LINK-USD", "BCH-USD", "LTC-USD", "UNI-USD", "MATIC-USD", "SOL-USD",
		},
	}
}

// DefaultWatchlist is the symbol set scanned when none is configured.
func DefaultWatchlist() []string {
	return []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
		"SPY", "QQQ", "IWM", "VTI", "VXUS",
		"EURUSD=X", "GBPUSD=X", "USDJPY=X",
		"GC=F", "CL=F", "BTC-USD", "ETH-USD",
	}
}
