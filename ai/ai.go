// Package ai wraps the LLM used for product copywriting, search reranking
// and recommendations. Every call degrades to a deterministic fallback when
// the model is unreachable or returns garbage, and the result says so
// explicitly instead of passing the fallback off as a model answer.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"go-marketplace/models"
)

const requestTimeout = 20 * time.Second

// chatClient is the slice of the OpenAI client the package uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Description is a product description, possibly a canned fallback.
type Description struct {
	Text     string
	Degraded bool
	Cause    error
}

// SearchResult is a reranked product list, possibly the unranked input.
type SearchResult struct {
	Products []models.Product
	Degraded bool
	Cause    error
}

// Recommendations is a set of recommended product ids.
type Recommendations struct {
	ProductIDs []string
	Degraded   bool
	Cause      error
}

// Client calls the LLM for marketplace features.
type Client struct {
	chat   chatClient
	model  string
	logger *slog.Logger
}

// NewClient creates an AI client backed by the OpenAI API.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		chat:   openai.NewClient(apiKey),
		model:  openai.GPT4o,
		logger: logger,
	}
}

// GenerateDescription writes marketing copy for a product. On failure it
// returns a generic description flagged as degraded.
func (c *Client) GenerateDescription(ctx context.Context, name, category, brand string) Description {
	fallback := fmt.Sprintf("High-quality %s from %s. Perfect for %s enthusiasts.", name, brand, category)

	content, err := c.complete(ctx,
		"You are an expert product copywriter. Create engaging, detailed product descriptions that highlight benefits and features. Keep descriptions under 200 words.",
		fmt.Sprintf("Create a compelling product description for: %s by %s in the %s category.", name, brand, category),
	)
	if err != nil {
		c.logger.Warn("description generation degraded", "product", name, "error", err)
		return Description{Text: fallback, Degraded: true, Cause: err}
	}
	return Description{Text: strings.TrimSpace(content)}
}

// SmartSearch reranks products by relevance to the query. On failure it
// returns the first ten products unranked, flagged as degraded.
func (c *Client) SmartSearch(ctx context.Context, query string, products []models.Product) SearchResult {
	summaries := make([]map[string]any, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, map[string]any{
			"id": p.ID, "name": p.Name, "description": p.Description,
			"category": p.Category, "brand": p.Brand, "tags": p.Tags,
		})
	}
	payload, _ := json.Marshal(summaries)

	content, err := c.complete(ctx,
		"You are a smart search assistant. Given a search query and a list of products, return only a JSON array of the product ids that match the query, ordered by relevance.",
		fmt.Sprintf("Search query: %q\n\nProducts: %s", query, payload),
	)
	if err != nil {
		c.logger.Warn("smart search degraded", "query", query, "error", err)
		return SearchResult{Products: firstN(products, 10), Degraded: true, Cause: err}
	}

	ids, err := parseIDArray(content)
	if err != nil {
		c.logger.Warn("smart search returned unparsable ranking", "query", query, "error", err)
		return SearchResult{Products: firstN(products, 10), Degraded: true, Cause: err}
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ranked := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ranked = append(ranked, p)
		}
	}
	return SearchResult{Products: ranked}
}

// Recommend picks products for a user context. On failure it returns the
// first six product ids, flagged as degraded.
func (c *Client) Recommend(ctx context.Context, userContext string, products []models.Product) Recommendations {
	summaries := make([]map[string]any, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, map[string]any{
			"id": p.ID, "name": p.Name, "category": p.Category,
			"brand": p.Brand, "price": p.Price,
		})
	}
	payload, _ := json.Marshal(summaries)

	content, err := c.complete(ctx,
		"You are a product recommendation engine. Based on the user context and available products, recommend 4-6 relevant products. Return only a JSON array of product ids.",
		fmt.Sprintf("Context: %s\n\nAvailable products: %s", userContext, payload),
	)
	if err == nil {
		if ids, parseErr := parseIDArray(content); parseErr == nil {
			return Recommendations{ProductIDs: ids}
		} else {
			err = parseErr
		}
	}

	c.logger.Warn("recommendations degraded", "error", err)
	fallback := make([]string, 0, 6)
	for _, p := range firstN(products, 6) {
		fallback = append(fallback, p.ID)
	}
	return Recommendations{ProductIDs: fallback, Degraded: true, Cause: err}
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseIDArray(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var ids []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &ids); err != nil {
		return nil, fmt.Errorf("parsing id array: %w", err)
	}
	return ids, nil
}

func firstN(products []models.Product, n int) []models.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}
