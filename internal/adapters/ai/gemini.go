package ai

import (
	"context"
	"time"

	"google.golang.org/genai"

	"hermes/internal/adapters/config"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Ensure GeminiClient implements Client
var _ Client = (*GeminiClient)(nil)

// GeminiClient implements the Client boundary on top of the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *limiter
	log     *logger.Logger
}

// NewGeminiClient creates a Gemini-backed LLM client.
func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	if cfg.GeminiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
		limiter: newLimiter(cfg.RequestsPerMinute),
		log:     logger.Get().With("component", "gemini_client"),
	}, nil
}

// GenerateText produces free-form prose for a prompt.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	metrics.RecordLLMCall("generate_text", err)
	if err != nil {
		return "", errors.Wrap(errors.ErrLLMUnavailable, err.Error())
	}

	text := resp.Text()
	if text == "" {
		return "", errors.ErrEmptyResponse
	}
	return text, nil
}

// GenerateJSON produces a structured response and strictly decodes it.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, dest interface{}) error {
	text, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return err
	}
	return DecodeJSON(text, dest)
}

// SelectFunction maps a query onto one of the declared functions.
// A model reply without a function call is a well-formed no_function_call
// result, not an error; the planner decides what to do with it.
func (c *GeminiClient) SelectFunction(ctx context.Context, req FunctionCallRequest) (*FunctionCallResult, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return &FunctionCallResult{Status: StatusError, Message: err.Error()}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	declarations := make([]*genai.FunctionDeclaration, 0, len(req.Declarations))
	for _, d := range req.Declarations {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  schemaFromMap(d.Parameters),
		})
	}

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FunctionDeclarations: declarations}},
	}
	if req.Instruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.Instruction, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Query), cfg)
	metrics.RecordLLMCall("select_function", err)
	if err != nil {
		c.log.Warnf("Function selection failed: %v", err)
		return &FunctionCallResult{Status: StatusError, Message: err.Error()}, nil
	}

	fnCalls := resp.FunctionCalls()
	if len(fnCalls) == 0 {
		return &FunctionCallResult{Status: StatusNoFunctionCall}, nil
	}

	calls := make([]FunctionCall, 0, len(fnCalls))
	for _, fc := range fnCalls {
		calls = append(calls, FunctionCall{
			Name:      fc.Name,
			Arguments: fc.Args,
		})
	}

	return &FunctionCallResult{Status: StatusSuccess, Calls: calls}, nil
}

// schemaFromMap converts a JSON-schema map into the genai schema type.
// Only the subset used by the portfolio function schema is supported.
func schemaFromMap(m map[string]interface{}) *genai.Schema {
	if m == nil {
		return nil
	}

	schema := &genai.Schema{}

	if t, ok := m["type"].(string); ok {
		switch t {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "integer":
			schema.Type = genai.TypeInteger
		case "number":
			schema.Type = genai.TypeNumber
		case "boolean":
			schema.Type = genai.TypeBoolean
		}
	}

	if desc, ok := m["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := m["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				schema.Properties[name] = schemaFromMap(sub)
			}
		}
	}

	if items, ok := m["items"].(map[string]interface{}); ok {
		schema.Items = schemaFromMap(items)
	}

	if required, ok := m["required"].([]string); ok {
		schema.Required = required
	} else if rawRequired, ok := m["required"].([]interface{}); ok {
		for _, r := range rawRequired {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	return schema
}
