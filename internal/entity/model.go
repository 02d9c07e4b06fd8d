package entity

// ModelType identifies a trained model family.
type ModelType string

const (
	ModelLSTM        ModelType = "LSTM"
	ModelGRU         ModelType = "GRU"
	ModelCNN         ModelType = "CNN"
	ModelRNN         ModelType = "RNN"
	ModelTimesNet    ModelType = "TIMESNET"
	ModelTransformer ModelType = "TRANSFORMER"
)

// ModelTypes lists every supported model family.
var ModelTypes = []ModelType{ModelLSTM, ModelGRU, ModelCNN, ModelRNN, ModelTimesNet, ModelTransformer}

// Valid reports whether the model type is one of the supported families.
func (m ModelType) Valid() bool {
	switch m {
	case ModelLSTM, ModelGRU, ModelCNN, ModelRNN, ModelTimesNet, ModelTransformer:
		return true
	}
	return false
}

// SentimentType selects between sentiment-augmented and price-only models.
type SentimentType string

const (
	SentimentAware SentimentType = "sentiment"
	SentimentNone  SentimentType = "nonsentiment"
)

// Valid reports whether the sentiment type is recognized.
func (s SentimentType) Valid() bool {
	return s == SentimentAware || s == SentimentNone
}

// TrainingSizes lists the dataset sizes models were trained with.
var TrainingSizes = []int{5, 25, 50}

// ValidTrainingSize reports whether n is a recognized training size.
func ValidTrainingSize(n int) bool {
	for _, s := range TrainingSizes {
		if n == s {
			return true
		}
	}
	return false
}
