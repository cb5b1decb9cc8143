package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// LLMParser implements Parser using an OpenAI-compatible chat completion API.
type LLMParser struct {
	client *openai.Client
	model  string
}

// NewLLMParser creates a parser backed by the given API key and model.
// baseURL overrides the API endpoint for OpenAI-compatible providers; empty
// means the default endpoint.
func NewLLMParser(apiKey, model, baseURL string) *LLMParser {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &LLMParser{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const systemPrompt = `You are a stock monitoring assistant that extracts structured data from stock-related text. Always return valid JSON only. Do not include any explanatory text before or after the JSON.`

const promptTemplate = `Extract structured information from the following user text about stocks.

User text: %q

Return ONLY valid JSON with this structure:
{
    "symbol": "TICKER_SYMBOL" or null,
    "action_type": "buy" | "hold" | "watch" | "sell" | "review" | "unknown" or null,
    "buy_price": number or null,
    "conditions": {
        "price_above": number or null,
        "price_below": number or null,
        "price_between": {"min": number, "max": number} or null,
        "percent_change": number or null,
        "percent_drop": number or null,
        "percent_above_buy": number or null,
        "time_period_days": number or null,
        "reminder_days": number or null,
        "trailing_stop": number or null
    },
    "user_opinion": "string" or null
}

Rules:
1. Normalize stock symbols to uppercase (e.g., "nvidia" -> "NVDA", "Apple" -> "AAPL")
2. Extract buy_price if the user mentions a purchase price
3. Map phrases to conditions:
   - "crosses 200$" or "above 200$" -> price_above: 200
   - "goes below 65$" or "below 65$" -> price_below: 65
   - "between 300 and 310" -> price_between: {"min": 300, "max": 310}
   - "falls more than 15%%" or "drops 15%%" -> percent_drop: 15
   - "10%% above buy price" or "rises 20%% from buy" -> percent_above_buy
   - "in 3 months" -> reminder_days: 90
   - "after a month" -> time_period_days: 30
   - "trailing stop loss at 300" -> trailing_stop: 300
4. Set missing values to null
5. Return ONLY valid JSON, no markdown formatting

JSON:`

// Parse extracts structured note data from free text.
func (p *LLMParser) Parse(ctx context.Context, text string) (*models.ParsedNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrEmptyInput
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, text)},
		},
	})
	if err != nil {
		return nil, errors.NewParseError("completion", "llm request failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewParseError("completion", "no response from llm", nil)
	}

	return decodeResponse(resp.Choices[0].Message.Content)
}

// ListModels returns the model IDs available at the configured endpoint.
func (p *LLMParser) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing models")
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// payload is the wire shape returned by the model. Condition values are kept
// raw so a malformed entry degrades to "absent" instead of failing the whole
// parse.
type payload struct {
	Symbol      *string                    `json:"symbol"`
	ActionType  *string                    `json:"action_type"`
	BuyPrice    *float64                   `json:"buy_price"`
	Conditions  map[string]json.RawMessage `json:"conditions"`
	UserOpinion *string                    `json:"user_opinion"`
}

// decodeResponse cleans up and decodes the model output.
func decodeResponse(content string) (*models.ParsedNote, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, errors.NewParseError("decode", "no JSON object in response", nil)
	}

	var pl payload
	if err := json.Unmarshal([]byte(raw), &pl); err != nil {
		return nil, errors.NewParseError("decode", "invalid JSON from llm", err)
	}

	parsed := &models.ParsedNote{
		ActionType: models.ActionUnknown,
		Conditions: decodeConditions(pl.Conditions),
	}
	if pl.Symbol != nil {
		parsed.Symbol = models.NormalizeSymbol(*pl.Symbol)
	}
	if pl.ActionType != nil {
		parsed.ActionType = models.ParseActionType(*pl.ActionType)
	}
	if pl.BuyPrice != nil && *pl.BuyPrice > 0 {
		parsed.BuyPrice = pl.BuyPrice
	}
	if pl.UserOpinion != nil {
		parsed.UserOpinion = strings.TrimSpace(*pl.UserOpinion)
	}

	return parsed, nil
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object in the text.
func extractJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// decodeConditions decodes each condition independently. A value with the
// wrong shape is dropped, never an error.
func decodeConditions(raw map[string]json.RawMessage) models.Conditions {
	var c models.Conditions
	if raw == nil {
		return c
	}

	c.PriceAbove = floatField(raw, "price_above")
	c.PriceBelow = floatField(raw, "price_below")
	c.PriceBetween = rangeField(raw, "price_between")
	c.PercentDrop = floatField(raw, "percent_drop")
	c.PercentChange = floatField(raw, "percent_change")
	c.PercentAboveBuy = floatField(raw, "percent_above_buy")
	c.ReminderDays = intField(raw, "reminder_days")
	c.TimePeriodDays = intField(raw, "time_period_days")
	c.TrailingStop = floatField(raw, "trailing_stop")
	return c
}

func floatField(raw map[string]json.RawMessage, key string) *float64 {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	var v float64
	if err := json.Unmarshal(msg, &v); err != nil || v == 0 {
		return nil
	}
	return &v
}

func intField(raw map[string]json.RawMessage, key string) *int {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	// Models sometimes return fractional day counts; truncate.
	var f float64
	if err := json.Unmarshal(msg, &f); err != nil || f <= 0 {
		return nil
	}
	v := int(f)
	if v == 0 {
		return nil
	}
	return &v
}

func rangeField(raw map[string]json.RawMessage, key string) *models.PriceRange {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	var r models.PriceRange
	if err := json.Unmarshal(msg, &r); err != nil || r.Min == 0 || r.Max == 0 {
		return nil
	}
	return &r
}
