package schema

// FoodItem is something recognized on a food picture
type FoodItem struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// FoodAnalysis is the result of a food picture analysis
type FoodAnalysis struct {
	Items []FoodItem `json:"items"`
}
