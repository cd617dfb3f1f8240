// Package conversation implements the advisor's dialogue engine: per-turn
// slot filling, income normalization, exit detection, FAQ retrieval and the
// web-augmented answer pipeline. The engine itself owns no storage — each
// turn receives the previous turn's persisted state and returns the state
// to persist, so callers control durability and per-session ordering.
package conversation

import (
	"context"
	"time"

	"github.com/rmehta/loan-advisor/internal/knowledge"
	"github.com/rmehta/loan-advisor/internal/llm"
)

// Required slots, checked in this order. The first missing one decides the
// follow-up question.
const (
	SlotName     = "name"
	SlotLocation = "location"
	SlotIncome   = "income"
	SlotTimeline = "timeline"
)

// RequiredSlots is the fixed slot-filling order.
var RequiredSlots = []string{SlotName, SlotLocation, SlotIncome, SlotTimeline}

// Derived parameter keys. They live in the same ParameterSet as the slots
// and follow the same merge rule.
const (
	ParamLoanType           = "loan_type"
	ParamLoanAmount         = "loan_amount"
	ParamLastUserQuery      = "last_user_query"
	ParamHighIncomeFlag     = "high_income_flag"
	ParamAssumedLoanSize    = "assumed_loan_size"
	ParamAwaitingLoanAmount = "awaiting_loan_amount"
)

// Intent labels recorded on each persisted turn.
const (
	IntentGreeting        = "greeting"
	IntentIrrelevant      = "irrelevant"
	IntentLoanInquiry     = "loan_inquiry"
	IntentHighIncomeCheck = "high_income_check"
	IntentFarewell        = "farewell"
	IntentLoanRAG         = "loan_rag"
)

// Response modes.
const (
	ModeChat = "chat"
	ModeRAG  = "rag"
)

// State tags persisted with each turn. The next turn resumes from the tag
// instead of sniffing the previous bot response's text.
const (
	StateTagNone               = ""
	StateTagAwaitingName       = "awaiting_name"
	StateTagAwaitingLocation   = "awaiting_location"
	StateTagAwaitingIncome     = "awaiting_income"
	StateTagAwaitingTimeline   = "awaiting_timeline"
	StateTagAwaitingLoanAmount = "awaiting_loan_amount"
)

// State names the position of a session in the dialogue state machine. The
// state is derived from the previous turn's record at the start of each
// turn and is logged for every transition.
type State string

const (
	StateNew                 State = "new"
	StateInFlow              State = "in_flow"
	StateAwaitingSlot        State = "awaiting_slot"
	StateAwaitingLoanAmount  State = "awaiting_loan_amount"
	StateSlotsComplete       State = "slots_complete"
	StateRetrieving          State = "retrieving"
	StateTerminal            State = "terminal"
)

// Turn is the immutable record of one exchange. Rows are appended once per
// turn and never updated.
type Turn struct {
	ID            string            `json:"id"`
	SessionID     string            `json:"session_id"`
	UserID        string            `json:"user_id"`
	UserMessage   string            `json:"user_message"`
	BotResponse   string            `json:"bot_response"`
	Intent        string            `json:"intent"`
	StateTag      string            `json:"state_tag"`
	Params        Params            `json:"parameters"`
	Context       map[string]string `json:"context"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	LoanType      string            `json:"loan_type,omitempty"`
	LastUserQuery string            `json:"last_user_query,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// PriorTurn is the slice of the previous turn the engine needs.
type PriorTurn struct {
	Intent   string
	StateTag string
	Params   Params
}

// TurnRequest is one user message plus the session's prior state. History
// is only consulted by the history-aggregating strategy.
type TurnRequest struct {
	Message string
	Model   string
	Prior   *PriorTurn
	History []Turn
}

// TurnResult is everything a turn produces: exactly one response and the
// state to persist.
type TurnResult struct {
	Response       string
	Mode           string
	Intent         string
	StateTag       string
	Params         Params
	ContextSummary string
	Description    string
}

// LLMClient is the language-model boundary the engine depends on. All
// methods surface failures as errors; the engine maps them to conservative
// defaults (not a greeting, not loan-related, not exiting, nothing
// extracted) rather than failing the turn.
type LLMClient interface {
	IsGreeting(ctx context.Context, model, message string) (bool, error)
	IsLoanRelated(ctx context.Context, model, message string) (bool, error)
	ConfirmExit(ctx context.Context, model, message, context string) (bool, error)
	ExtractSlots(ctx context.Context, model, message string) (llm.SlotExtraction, error)
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// KnowledgeSearcher is the retrieval boundary.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, topK int, threshold float64) ([]knowledge.Match, error)
}
