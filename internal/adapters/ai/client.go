package ai

import "context"

// Client is the LLM capability boundary required by the orchestration layer.
// Implementations must surface timeouts and transport faults as errors,
// never as hangs; callers convert errors to component-level degraded results.
type Client interface {
	// GenerateText produces free-form prose for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON produces a structured response and strictly decodes it
	// into dest. A garbled payload yields a *errors.ParseError, not a
	// partially-populated dest.
	GenerateJSON(ctx context.Context, prompt string, dest interface{}) error

	// SelectFunction maps a query onto one of the declared functions via
	// the model's tool-calling API.
	SelectFunction(ctx context.Context, req FunctionCallRequest) (*FunctionCallResult, error)
}

// FunctionDeclaration describes one callable function exposed to the model.
// Parameters is a JSON schema object (type/properties/items/required).
type FunctionDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// FunctionCallRequest is a tool-selection request.
type FunctionCallRequest struct {
	Query        string
	Instruction  string // fully-rendered system instruction
	Declarations []FunctionDeclaration
}

// FunctionCallStatus classifies the outcome of a tool-selection request.
type FunctionCallStatus string

const (
	StatusSuccess        FunctionCallStatus = "success"
	StatusNoFunctionCall FunctionCallStatus = "no_function_call"
	StatusError          FunctionCallStatus = "error"
)

// FunctionCall is a named, argument-bearing call chosen by the model.
type FunctionCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// FunctionCallResult is the structured outcome of SelectFunction.
type FunctionCallResult struct {
	Status  FunctionCallStatus
	Calls   []FunctionCall
	Message string // populated on error
}
