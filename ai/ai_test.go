package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-marketplace/models"
)

type fakeChat struct {
	content string
	err     error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testClient(chat chatClient) *Client {
	return &Client{
		chat:   chat,
		model:  openai.GPT4o,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func catalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Laptop"},
		{ID: "p2", Name: "Phone"},
		{ID: "p3", Name: "Tablet"},
	}
}

func TestGenerateDescriptionSuccess(t *testing.T) {
	c := testClient(&fakeChat{content: "  A great widget.  "})

	desc := c.GenerateDescription(context.Background(), "Widget", "tools", "Acme")
	assert.False(t, desc.Degraded)
	assert.Equal(t, "A great widget.", desc.Text)
	assert.NoError(t, desc.Cause)
}

func TestGenerateDescriptionDegradesOnFailure(t *testing.T) {
	cause := errors.New("api down")
	c := testClient(&fakeChat{err: cause})

	desc := c.GenerateDescription(context.Background(), "Widget", "tools", "Acme")
	assert.True(t, desc.Degraded)
	assert.ErrorIs(t, desc.Cause, cause)
	assert.Contains(t, desc.Text, "Widget")
	assert.Contains(t, desc.Text, "Acme")
}

func TestSmartSearchRanksByModelAnswer(t *testing.T) {
	c := testClient(&fakeChat{content: `["p3", "p1"]`})

	result := c.SmartSearch(context.Background(), "portable", catalog())
	require.False(t, result.Degraded)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "p3", result.Products[0].ID)
	assert.Equal(t, "p1", result.Products[1].ID)
}

func TestSmartSearchIgnoresUnknownIDs(t *testing.T) {
	c := testClient(&fakeChat{content: `["p2", "made-up"]`})

	result := c.SmartSearch(context.Background(), "phone", catalog())
	require.False(t, result.Degraded)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "p2", result.Products[0].ID)
}

func TestSmartSearchDegradesOnUnparsableAnswer(t *testing.T) {
	c := testClient(&fakeChat{content: "sorry, I cannot help with that"})

	result := c.SmartSearch(context.Background(), "phone", catalog())
	assert.True(t, result.Degraded)
	assert.Error(t, result.Cause)
	assert.Len(t, result.Products, 3)
}

func TestSmartSearchStripsCodeFences(t *testing.T) {
	c := testClient(&fakeChat{content: "```json\n[\"p1\"]\n```"})

	result := c.SmartSearch(context.Background(), "laptop", catalog())
	require.False(t, result.Degraded)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "p1", result.Products[0].ID)
}

func TestRecommendSuccess(t *testing.T) {
	c := testClient(&fakeChat{content: `["p2", "p3"]`})

	recs := c.Recommend(context.Background(), "bought a laptop", catalog())
	assert.False(t, recs.Degraded)
	assert.Equal(t, []string{"p2", "p3"}, recs.ProductIDs)
}

func TestRecommendDegradesOnFailure(t *testing.T) {
	c := testClient(&fakeChat{err: errors.New("timeout")})

	recs := c.Recommend(context.Background(), "bought a laptop", catalog())
	assert.True(t, recs.Degraded)
	assert.Equal(t, []string{"p1", "p2", "p3"}, recs.ProductIDs)
}
