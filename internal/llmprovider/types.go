package llmprovider

import "strings"

// Запрос к Responses API провайдера.
type completionRequest struct {
	Model           string    `json:"model"`
	Instructions    string    `json:"instructions"`
	Input           string    `json:"input"`
	MaxOutputTokens int       `json:"max_output_tokens"`
	Reasoning       reasoning `json:"reasoning"`
}

type reasoning struct {
	Effort string `json:"effort"`
}

// Ответ Responses API. Текст может лежать как в output_text,
// так и внутри элементов output.
type completionResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Text извлекает текст ответа, предпочитая output_text.
func (r completionResponse) Text() string {
	if s := strings.TrimSpace(r.OutputText); s != "" {
		return s
	}
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				if s := strings.TrimSpace(c.Text); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}
