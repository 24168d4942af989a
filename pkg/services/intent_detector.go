package services

import "strings"

// intentDetector decides whether a prompt is asking for a generated image.
// The lexicon is policy, injected from configuration.
type intentDetector struct {
	imageKeywords []string
}

func NewIntentDetector(imageKeywords []string) *intentDetector {
	return &intentDetector{
		imageKeywords: imageKeywords,
	}
}

func (i *intentDetector) ShouldGenerateImage(prompt string) bool {
	lowerText := strings.ToLower(prompt)
	for _, keyword := range i.imageKeywords {
		if strings.Contains(lowerText, keyword) {
			return true
		}
	}
	return false
}
