package types

// Sentiment classifies a feedback entry as submitted by the author
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// AllSentiments returns every recognized sentiment
func AllSentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// IsValid reports whether the sentiment is one of the recognized values
func (x Sentiment) IsValid() bool {
	switch x {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

func (x Sentiment) String() string {
	return string(x)
}

// Normalize maps the empty value to neutral. Submissions may omit the
// sentiment entirely.
func (x Sentiment) Normalize() Sentiment {
	if x == "" {
		return SentimentNeutral
	}
	return x
}
