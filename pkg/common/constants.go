package common

const (
	// RedisKeyLastPrice stores the latest authoritative close per symbol so
	// independently rendered panels agree on "current price".
	RedisKeyLastPrice = "last_price:%s"

	// CacheKeyNewsSentiment keys the in-memory news sentiment cache.
	CacheKeyNewsSentiment = "news_sentiment:%s:%d:%d"

	// CacheKeyModelCatalog keys the cached model catalog response.
	CacheKeyModelCatalog = "model_catalog"

	// CacheKeyFXRate keys the cached conversion rate per currency pair.
	CacheKeyFXRate = "fx_rate:%s_%s"
)

// FallbackSymbols is queried when the watchlist is empty so alert synthesis
// always has something to work with.
var FallbackSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA"}
