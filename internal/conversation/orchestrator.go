package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/rmehta/loan-advisor/internal/websearch"
)

// ErrMissingMessage is the only caller-visible turn failure: a turn with no
// user message is rejected before any state transition.
var ErrMissingMessage = errors.New("conversation: message is required")

// ContextStrategy selects how much session state a turn consumes.
type ContextStrategy string

const (
	// StrategyLatest carries only the previous turn's parameter set
	// forward and runs the full slot-filling flow.
	StrategyLatest ContextStrategy = "latest"
	// StrategyHistory aggregates the whole session history into context
	// and answers directly, skipping the slot-filling gate.
	StrategyHistory ContextStrategy = "history"
)

// Config tunes one orchestrator instance.
type Config struct {
	Strategy            ContextStrategy
	DefaultModel        string
	HighIncomeThreshold int64
	RetrievalThreshold  float64
	BestMatchThreshold  float64
	TopK                int
	WebLinkLimit        int
}

// Orchestrator drives one conversation turn end to end. It is stateless
// across turns and safe for concurrent use by distinct sessions; callers
// must serialize turns within a session because each turn consumes the
// previous turn's persisted output.
type Orchestrator struct {
	llm       LLMClient
	knowledge KnowledgeSearcher
	search    websearch.Searcher
	exits     *ExitDetector
	cfg       Config
}

// NewOrchestrator wires the engine's collaborators.
func NewOrchestrator(client LLMClient, store KnowledgeSearcher, search websearch.Searcher, exits *ExitDetector, cfg Config) *Orchestrator {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.WebLinkLimit <= 0 {
		cfg.WebLinkLimit = 3
	}
	return &Orchestrator{llm: client, knowledge: store, search: search, exits: exits, cfg: cfg}
}

var nameFallback = regexp.MustCompile(`(?i)\bmy name is (\w+)`)

// ProcessTurn runs one exchange. Every return path produces exactly one
// result; external-call failures degrade the answer, they never fail the
// turn. The only error is ErrMissingMessage.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMissingMessage
	}

	model := req.Model
	if model == "" {
		model = o.cfg.DefaultModel
	}

	if o.cfg.Strategy == StrategyHistory {
		return o.processHistory(ctx, model, req), nil
	}
	return o.processLatest(ctx, model, req), nil
}

// processLatest is the slot-filling flow: classify on first contact, resume
// pending sub-flows, extract and merge slots, normalize income, ask for the
// first missing slot, then answer via retrieval and augmentation.
func (o *Orchestrator) processLatest(ctx context.Context, model string, req TurnRequest) *TurnResult {
	message := req.Message

	params := Params{}
	inLoanFlow := false
	state := StateNew
	if req.Prior != nil {
		params = req.Prior.Params.Clone()
		inLoanFlow = req.Prior.Intent == IntentLoanInquiry
		state = StateInFlow
	}

	// Resume the high-income clarification: a bare number is the loan
	// amount the previous turn asked for.
	if params.Flag(ParamHighIncomeFlag) && params.Flag(ParamAwaitingLoanAmount) {
		state = StateAwaitingLoanAmount
		cleaned := strings.TrimSpace(strings.ReplaceAll(message, ",", ""))
		if isDigits(cleaned) {
			amount, _ := ParseINR(cleaned)
			params[ParamLoanAmount] = FormatINR(amount)
			params[ParamAwaitingLoanAmount] = "false"
			message = fmt.Sprintf("I am considering a loan of %s.", FormatINR(amount))
			inLoanFlow = true
			state = StateInFlow
		}
	}

	// Resume the name prompt: an alphabetic reply is the name.
	if req.Prior != nil && req.Prior.StateTag == StateTagAwaitingName && isAlphaSpaces(strings.TrimSpace(message)) {
		name := titleCase(strings.TrimSpace(message))
		params[SlotName] = name
		message = "My name is " + name
		inLoanFlow = true
		state = StateInFlow
	}

	// First contact: greeting / loan-related / irrelevant classification.
	if !inLoanFlow && req.Prior == nil {
		log.Printf("conversation: session state %s -> classifying", state)
		if o.isGreeting(ctx, model, message) {
			return &TurnResult{
				Response: msgGreeting,
				Mode:     ModeChat,
				Intent:   IntentGreeting,
				Params:   params,
			}
		}
		if !o.isLoanRelated(ctx, model, message) {
			return &TurnResult{
				Response: msgIrrelevant,
				Mode:     ModeChat,
				Intent:   IntentIrrelevant,
				Params:   params,
			}
		}
	}

	// Structured extraction, merged under the override rule. Income merges
	// only after normalization succeeds; an unparseable income leaves the
	// slot as it was so the slot check re-prompts.
	extracted, err := o.llm.ExtractSlots(ctx, model, message)
	if err != nil {
		log.Printf("conversation: slot extraction failed, continuing with empty extraction: %v", err)
	}
	updates := map[string]string{
		SlotLocation: extracted.Location,
		SlotTimeline: extracted.Timeline,
	}
	incomeText := extracted.Income
	if incomeText == "" {
		incomeText = message
	}
	var income int64
	incomeSeen := false
	if n, ok := NormalizeIncome(incomeText); ok {
		income = n
		incomeSeen = true
		updates[SlotIncome] = FormatINR(n)
	} else if extracted.Income != "" {
		log.Printf("conversation: could not normalize income %q, leaving slot unfilled", extracted.Income)
	}
	params.Merge(updates)
	params[ParamLastUserQuery] = message

	// Name fallback: "my name is X".
	if !params.Has(SlotName) {
		if m := nameFallback.FindStringSubmatch(message); m != nil {
			params[SlotName] = titleCase(m[1])
		}
	}

	// Loan type from the fixed vocabulary.
	lower := strings.ToLower(message)
	if !params.Has(ParamLoanType) {
		for _, typ := range loanTypeKeywords {
			if strings.Contains(lower, typ) {
				params[ParamLoanType] = typ
				break
			}
		}
	}

	// Relevance re-check for messages with no loan signal at all.
	if !containsAny(lower, relevanceKeywords) && !params.Has(ParamLoanType) {
		if !o.isLoanRelated(ctx, model, message) {
			return &TurnResult{
				Response: msgIrrelevant,
				Mode:     ModeChat,
				Intent:   IntentIrrelevant,
				Params:   params,
			}
		}
	}

	// High-income gate: triggered at most once per session.
	if incomeSeen && income > o.cfg.HighIncomeThreshold && !params.Flag(ParamHighIncomeFlag) {
		params[ParamHighIncomeFlag] = "true"
		params[ParamAssumedLoanSize] = "very high"
		params[ParamAwaitingLoanAmount] = "true"
		log.Printf("conversation: state %s -> %s (income above threshold)", state, StateAwaitingLoanAmount)
		return &TurnResult{
			Response: highIncomeMessage(FormatINR(income)),
			Mode:     ModeChat,
			Intent:   IntentHighIncomeCheck,
			StateTag: StateTagAwaitingLoanAmount,
			Params:   params,
		}
	}

	// Slot check, in fixed order. First gap ends the turn.
	for _, slot := range RequiredSlots {
		if !params.Has(slot) {
			followUp := slotFollowUps[slot]
			log.Printf("conversation: state %s -> %s (%s)", state, StateAwaitingSlot, slot)
			return &TurnResult{
				Response:    followUp.Question,
				Mode:        ModeChat,
				Intent:      IntentLoanInquiry,
				StateTag:    followUp.StateTag,
				Params:      params,
				Description: params.Describe(),
			}
		}
	}
	state = StateSlotsComplete

	// Exit check.
	if o.exits.Detect(ctx, model, message, exitCheckContext(message, params)) {
		log.Printf("conversation: state %s -> %s", state, StateTerminal)
		return &TurnResult{
			Response:    farewellMessage(params[SlotName]),
			Mode:        ModeChat,
			Intent:      IntentFarewell,
			Params:      params,
			Description: params.Describe(),
		}
	}

	// Retrieval plus augmentation.
	log.Printf("conversation: state %s -> %s", state, StateRetrieving)
	summary := BuildSummary(params)
	return o.answer(ctx, model, message, summary, params, o.cfg.RetrievalThreshold, 0, params.Describe())
}

// processHistory is the aggregating flow: the whole session folds into one
// context, the exit check runs unconditionally, and only a strong best
// match proceeds to augmentation.
func (o *Orchestrator) processHistory(ctx context.Context, model string, req TurnRequest) *TurnResult {
	message := req.Message

	params, transcript := AggregateHistory(req.History)

	// Re-normalize income accumulated from history.
	if params.Has(SlotIncome) {
		if n, ok := NormalizeIncome(params[SlotIncome]); ok {
			params[SlotIncome] = FormatINR(n)
			if n > o.cfg.HighIncomeThreshold {
				params[ParamHighIncomeFlag] = "true"
				params[ParamAssumedLoanSize] = "very high"
			}
		}
	}
	if !params.Has(ParamLastUserQuery) {
		params[ParamLastUserQuery] = message
	}

	summary := BuildSummary(params)
	description := strings.Join(transcript, "\n\n")

	if o.exits.Detect(ctx, model, message, summary) {
		return &TurnResult{
			Response:       farewellMessage(params[SlotName]),
			Mode:           ModeRAG,
			Intent:         IntentFarewell,
			Params:         params,
			ContextSummary: summary,
			Description:    description,
		}
	}

	return o.answer(ctx, model, message, summary, params, o.cfg.RetrievalThreshold, o.cfg.BestMatchThreshold, description)
}

// answer runs retrieval, web augmentation and final composition. bestMatch
// of zero disables the stricter top-score gate.
func (o *Orchestrator) answer(ctx context.Context, model, message, summary string, params Params, threshold, bestMatch float64, description string) *TurnResult {
	result := &TurnResult{
		Mode:           ModeRAG,
		Intent:         IntentLoanRAG,
		Params:         params,
		ContextSummary: summary,
		Description:    description,
	}

	query := message + "\n\nUser context: " + summary
	matches, err := o.knowledge.Search(ctx, query, o.cfg.TopK, threshold)
	if err != nil {
		log.Printf("conversation: knowledge search failed: %v", err)
		matches = nil
	}

	if len(matches) == 0 || matches[0].Score < bestMatch {
		result.Response = msgNoKnowledge
		return result
	}

	top := matches[0]
	kbContext := fmt.Sprintf("📚 Knowledge Match:\nQ: %s\nA: %s\n\n", top.Question, top.Answer)

	webSummary := o.augment(ctx, model, message)

	composed, err := o.llm.Complete(ctx, model, composePrompt(message, summary, kbContext, webSummary))
	if err != nil {
		// Last error-safe fallback: the FAQ answer stands on its own.
		log.Printf("conversation: final composition failed, returning FAQ answer: %v", err)
		result.Response = top.Answer
		return result
	}

	result.Response = withFooter(composed)
	return result
}

// augment turns the message into a web query, searches, and summarizes the
// top links. Every failure in the chain collapses to an empty summary so
// the answer continues with FAQ-only context.
func (o *Orchestrator) augment(ctx context.Context, model, message string) string {
	webQuery, err := o.llm.Complete(ctx, model, webQueryPrompt(message))
	if err != nil {
		log.Printf("conversation: web query generation failed: %v", err)
		return ""
	}

	results, err := o.search.Search(ctx, webQuery)
	if err != nil {
		log.Printf("conversation: web search failed: %v", err)
		return ""
	}

	links := results.TopLinks(o.cfg.WebLinkLimit)
	if len(links) == 0 {
		return ""
	}

	webSummary, err := o.llm.Complete(ctx, model, summarizeLinksPrompt(links))
	if err != nil {
		log.Printf("conversation: link summarization failed: %v", err)
		return ""
	}
	return webSummary
}

func (o *Orchestrator) isGreeting(ctx context.Context, model, message string) bool {
	ok, err := o.llm.IsGreeting(ctx, model, message)
	if err != nil {
		log.Printf("conversation: greeting classification failed, assuming not a greeting: %v", err)
		return false
	}
	return ok
}

func (o *Orchestrator) isLoanRelated(ctx context.Context, model, message string) bool {
	ok, err := o.llm.IsLoanRelated(ctx, model, message)
	if err != nil {
		log.Printf("conversation: relevance classification failed, assuming not loan-related: %v", err)
		return false
	}
	return ok
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
