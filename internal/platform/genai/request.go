package genai

import (
	"strings"

	"github.com/samber/lo"
	googleai "google.golang.org/genai"
)

func newGenerateRequest(req Request) ([]*googleai.Content, *googleai.GenerateContentConfig) {
	user := &googleai.Content{
		Role: "user",
		Parts: lo.Map(req.Parts, func(text string, _ int) *googleai.Part {
			return &googleai.Part{Text: text}
		}),
	}

	config := &googleai.GenerateContentConfig{
		Temperature: lo.ToPtr(float32(req.Temperature)),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &googleai.Content{
			Parts: []*googleai.Part{{Text: req.SystemPrompt}},
		}
	}

	if req.GoogleSearch {
		config.Tools = []*googleai.Tool{{GoogleSearch: &googleai.GoogleSearch{}}}
	}

	return []*googleai.Content{user}, config
}

// responseText concatenates text parts of the first candidate.
func responseText(resp *googleai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}

	return sb.String()
}

func finishReason(resp *googleai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	return string(resp.Candidates[0].FinishReason)
}
