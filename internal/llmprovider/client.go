// Package llmprovider реализует клиент API провайдера LLM:
// генерация реплик персонажа и изображений.
package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/config"
)

// Client — HTTP-клиент провайдера.
type Client struct {
	apiURL     string
	apiKey     string
	chatModel  string
	imageModel string
	httpClient *http.Client
}

// NewClient создаёт новый клиент из конфигурации.
func NewClient(cfg config.LLMProvider) *Client {
	return &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		apiKey:     cfg.APIKey,
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Complete запрашивает реплику персонажа: инструкции задают роль,
// input — сообщение пользователя. Возвращает текст ответа.
func (c *Client) Complete(ctx context.Context, instructions, input string) (string, error) {
	req, err := c.newRequest(ctx, "/responses", completionRequest{
		Model:           c.chatModel,
		Instructions:    instructions,
		Input:           input,
		MaxOutputTokens: 600,
		Reasoning:       reasoning{Effort: "low"},
	})
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("unexpected status: " + resp.Status)
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	text := cr.Text()
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

// GenerateImage запрашивает генерацию изображения по текстовому описанию
// и возвращает картинку в base64.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req, err := c.newRequest(ctx, "/images/generations", imageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		Size:   "1024x1024",
	})
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("unexpected status: " + resp.Status)
	}

	var ir imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return "", err
	}
	if len(ir.Data) == 0 || ir.Data[0].B64JSON == "" {
		return "", errors.New("empty image response")
	}
	return ir.Data[0].B64JSON, nil
}
