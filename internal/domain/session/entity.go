package session

import (
	"fmt"
	"strings"
	"time"

	"hermes/internal/domain/portfolio"
)

// DefaultMaxHistoryTurns bounds chat history when no explicit limit is set.
const DefaultMaxHistoryTurns = 5

// ChatTurn is one user/assistant exchange kept in session memory.
type ChatTurn struct {
	UserText      string                 `json:"user_text"`
	AssistantText string                 `json:"assistant_text"`
	Debug         map[string]interface{} `json:"debug_payload,omitempty"`
}

// Session holds per-(client, session) conversational state. The portfolio
// is owned exclusively by the session once loaded; the symbol-name map is
// derived once from holdings and read-only thereafter. A session handed to
// a request is always a private copy, so no per-field locking is needed
// inside one query's execution.
type Session struct {
	ClientID  string `json:"client_id"`
	SessionID string `json:"session_id"`

	Portfolio           []portfolio.Holding    `json:"portfolio"`
	SymbolNameMap       map[string][]string    `json:"symbol_name_map"`
	ChatHistory         []ChatTurn             `json:"chat_history"`
	IntermediateResults map[string]interface{} `json:"intermediate_results"`
	Metadata            map[string]interface{} `json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty session for the given identifiers.
func New(clientID, sessionID string) *Session {
	now := time.Now()
	return &Session{
		ClientID:            clientID,
		SessionID:           sessionID,
		SymbolNameMap:       map[string][]string{},
		ChatHistory:         []ChatTurn{},
		IntermediateResults: map[string]interface{}{},
		Metadata:            map[string]interface{}{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Clone returns a deep copy. Registries hand out clones so concurrent
// requests never share mutable state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	cp := *s

	cp.Portfolio = make([]portfolio.Holding, len(s.Portfolio))
	copy(cp.Portfolio, s.Portfolio)

	cp.SymbolNameMap = make(map[string][]string, len(s.SymbolNameMap))
	for symbol, aliases := range s.SymbolNameMap {
		cp.SymbolNameMap[symbol] = append([]string(nil), aliases...)
	}

	cp.ChatHistory = make([]ChatTurn, len(s.ChatHistory))
	copy(cp.ChatHistory, s.ChatHistory)

	cp.IntermediateResults = make(map[string]interface{}, len(s.IntermediateResults))
	for k, v := range s.IntermediateResults {
		cp.IntermediateResults[k] = v
	}

	cp.Metadata = make(map[string]interface{}, len(s.Metadata))
	for k, v := range s.Metadata {
		cp.Metadata[k] = v
	}

	return &cp
}

// AppendTurn records one exchange, evicting the oldest turns beyond maxTurns.
func (s *Session) AppendTurn(turn ChatTurn, maxTurns int) {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxHistoryTurns
	}

	s.ChatHistory = append(s.ChatHistory, turn)
	if len(s.ChatHistory) > maxTurns {
		s.ChatHistory = s.ChatHistory[len(s.ChatHistory)-maxTurns:]
	}
	s.UpdatedAt = time.Now()
}

// HistoryString renders chat history for LLM prompts.
func (s *Session) HistoryString() string {
	if len(s.ChatHistory) == 0 {
		return ""
	}

	var b strings.Builder
	for i, turn := range s.ChatHistory {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "User: %s\nAssistant: %s", turn.UserText, turn.AssistantText)
	}
	return b.String()
}

// Key identifies a session in a registry.
type Key struct {
	ClientID  string
	SessionID string
}

func (k Key) String() string {
	return k.ClientID + ":" + k.SessionID
}
