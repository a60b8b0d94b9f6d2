package agents

// Step is one executed agent's literal (input, output) pair. Inputs and
// outputs are recorded as the objects actually passed between stages, not
// summaries.
type Step struct {
	Agent  string      `json:"agent"`
	Input  interface{} `json:"input"`
	Output interface{} `json:"output"`
}

// WorkflowLog is the append-only trace of one query's pipeline run. It is
// created at first write, consumed once by the validator, and discarded
// after the response goes out.
type WorkflowLog struct {
	OriginalQuery  string   `json:"original_query"`
	AgentsExecuted []string `json:"agents_executed"`
	Steps          []Step   `json:"steps"`
}

// NewWorkflowLog starts a trace for the given query.
func NewWorkflowLog(query string) *WorkflowLog {
	return &WorkflowLog{OriginalQuery: query}
}

// Append records one executed step in order. Duplicate agent names are
// allowed; a replayed agent appends again.
func (w *WorkflowLog) Append(agent string, input, output interface{}) {
	w.AgentsExecuted = append(w.AgentsExecuted, agent)
	w.Steps = append(w.Steps, Step{Agent: agent, Input: input, Output: output})
}
