package dto

// NewsArticle is a single scored article from the news sentiment API.
type NewsArticle struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Summary   string  `json:"summary"`
	URL       string  `json:"url"`
}

// NewsSentimentResponse mirrors GET /news/{symbol}. SentimentScore is in
// [0,1] with 0.5 neutral.
type NewsSentimentResponse struct {
	Stock            string        `json:"stock"`
	TotalArticles    int           `json:"totalArticles"`
	OverallSentiment string        `json:"overallSentiment"`
	SentimentScore   float64       `json:"sentimentScore"`
	Articles         []NewsArticle `json:"articles"`
}
