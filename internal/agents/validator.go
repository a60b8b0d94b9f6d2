package agents

import (
	"context"
	"strings"

	"hermes/internal/adapters/ai"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Validator reviews a query's workflow log post hoc. It is advisory, not
// a gate: a garbled judgment fails open to pass, and only an internal
// fault produces the distinct error verdict. Run never fails.
type Validator struct {
	llm ai.Client
	log *logger.Logger
}

// NewValidator creates a validator.
func NewValidator(llm ai.Client) *Validator {
	return &Validator{
		llm: llm,
		log: logger.Get().With("component", "validator"),
	}
}

// Run judges the workflow log against the original query.
func (v *Validator) Run(ctx context.Context, query string, workflow *WorkflowLog) ValidationResult {
	result := v.judge(ctx, query, workflow)
	metrics.RecordValidation(result.Result)
	return result
}

func (v *Validator) judge(ctx context.Context, query string, workflow *WorkflowLog) ValidationResult {
	if workflow == nil || len(workflow.Steps) == 0 {
		return ValidationResult{Result: ValidationPass}
	}

	var decoded struct {
		ValidationResult string `json:"validation_result"`
		FailedAgent      string `json:"failed_agent"`
		Reason           string `json:"reason"`
	}

	prompt := validationPrompt(query, workflow.Steps)
	if err := v.llm.GenerateJSON(ctx, prompt, &decoded); err != nil {
		// A garbled judgment fails open; a transport fault is an
		// internal error, reported as such.
		if errors.IsParseError(err) {
			v.log.Warnw("unparseable validation verdict, failing open", "error", err)
			return ValidationResult{Result: ValidationPass}
		}
		v.log.Warnw("validation call failed", "error", err)
		return ValidationResult{Result: ValidationError, Reason: err.Error()}
	}

	verdict := strings.ToLower(strings.TrimSpace(decoded.ValidationResult))
	if verdict != ValidationPass && verdict != ValidationFail {
		verdict = ValidationPass
	}

	return ValidationResult{
		Result:      verdict,
		FailedAgent: nullToEmpty(decoded.FailedAgent),
		Reason:      nullToEmpty(decoded.Reason),
	}
}

// nullToEmpty normalizes the literal "null" some models emit for absent
// string fields.
func nullToEmpty(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "null") {
		return ""
	}
	return s
}
