package models

// Insight is a short textual observation about the household's usage
type Insight struct {
	Title   string `json:"title"`
	Insight string `json:"insight"`
	Emoji   string `json:"emoji"`
}
