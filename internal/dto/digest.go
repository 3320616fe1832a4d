package dto

import "github.com/DjordjeVuckovic/news-digest/internal/digest"

type RunDigestResponse struct {
	Success bool                `json:"success"`
	Date    string              `json:"date"`
	Results []digest.UserResult `json:"results"`
}
