package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SlotExtraction holds the structured fields pulled from a single user
// message. Empty strings mean the field was absent or null.
type SlotExtraction struct {
	Location string `json:"location"`
	Income   string `json:"income"`
	Timeline string `json:"timeline"`
}

// Gateway layers the advisor's classification and extraction calls on top
// of a raw Provider. Every method returns an explicit error; callers decide
// what a failure degrades to (classifications degrade to "no", extractions
// to empty).
type Gateway struct {
	provider Provider
}

// NewGateway wraps the given provider.
func NewGateway(provider Provider) *Gateway {
	return &Gateway{provider: provider}
}

func (g *Gateway) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.provider.Complete(ctx, CompletionRequest{
		Model:       model,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// Complete sends a free-form prompt and returns the trimmed answer.
func (g *Gateway) Complete(ctx context.Context, model, prompt string) (string, error) {
	return g.complete(ctx, model, prompt)
}

// classifyYesNo asks a yes/no question and reports whether the model
// answered "yes" (ignoring case and trailing punctuation).
func (g *Gateway) classifyYesNo(ctx context.Context, model, prompt string) (bool, error) {
	answer, err := g.complete(ctx, model, prompt)
	if err != nil {
		return false, err
	}
	answer = strings.Trim(strings.ToLower(answer), " .?!")
	return answer == "yes", nil
}

// IsGreeting reports whether the message is a general greeting.
func (g *Gateway) IsGreeting(ctx context.Context, model, message string) (bool, error) {
	prompt := "You're a classifier. Respond only with 'yes' or 'no'.\n" +
		"Does this message look like a general greeting (e.g., hi, hello, hey, good morning, etc)?\n" +
		"Message: " + message
	return g.classifyYesNo(ctx, model, prompt)
}

// IsLoanRelated reports whether the message is strictly about a supported
// loan type.
func (g *Gateway) IsLoanRelated(ctx context.Context, model, message string) (bool, error) {
	prompt := "You are a strict classifier. Only respond with 'yes' or 'no'.\n" +
		"Determine if the query is strictly about one of the following loan types:\n" +
		"- personal loan\n- home loan\n- education loan\n- vehicle loan\n- business loan\n- MSME loan\n\n" +
		"If it's any other type (e.g., car wash, cosmetic, travel, wedding), respond 'no'.\n" +
		"User query: " + message
	return g.classifyYesNo(ctx, model, prompt)
}

// ConfirmExit asks whether the message politely ends the conversation,
// given the accumulated context.
func (g *Gateway) ConfirmExit(ctx context.Context, model, message, context string) (bool, error) {
	prompt := fmt.Sprintf(
		"The user sent this message: '%s'\n\nThe chat so far:\n%s\n\n"+
			"Does this message politely indicate the user is ending the conversation?\n"+
			"Reply with only 'yes' or 'no'.",
		message, context,
	)
	return g.classifyYesNo(ctx, model, prompt)
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\n?")
	fenceClose = regexp.MustCompile("\n?```$")
	jsonObject = regexp.MustCompile(`(?s)\{.*?\}`)
)

// ExtractSlots pulls {location, income, timeline} out of the message. The
// model's answer may arrive wrapped in a code fence or with single-quoted
// keys; both are repaired before parsing. A missing key is an empty string.
func (g *Gateway) ExtractSlots(ctx context.Context, model, message string) (SlotExtraction, error) {
	prompt := "Extract loan-related details from the user's message.\n" +
		"Respond with ONLY a valid JSON object with these fields:\n" +
		"- location: city or state\n" +
		"- income: monthly income (like 1 lakh, 50000, etc.)\n" +
		"- timeline: when they plan to take the loan\n" +
		"If any value is not found, return it as null.\n\n" +
		"User message: \"" + message + "\"\n\n" +
		"Output:\n{\"location\": ..., \"income\": ..., \"timeline\": ...}"

	answer, err := g.complete(ctx, model, prompt)
	if err != nil {
		return SlotExtraction{}, err
	}
	return ParseSlotJSON(answer)
}

// ParseSlotJSON repairs and parses a slot-extraction answer.
func ParseSlotJSON(answer string) (SlotExtraction, error) {
	answer = strings.TrimSpace(answer)
	if strings.HasPrefix(answer, "```") {
		answer = fenceOpen.ReplaceAllString(answer, "")
		answer = fenceClose.ReplaceAllString(answer, "")
	}

	obj := jsonObject.FindString(answer)
	if obj == "" {
		return SlotExtraction{}, fmt.Errorf("no JSON object in extraction answer")
	}

	obj = strings.ReplaceAll(obj, "'", `"`)
	obj = strings.ReplaceAll(obj, `\`, "")

	// null values unmarshal to empty strings via RawMessage indirection.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return SlotExtraction{}, fmt.Errorf("parsing extraction JSON: %w", err)
	}

	get := func(key string) string {
		v, ok := raw[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		// Numbers arrive unquoted; keep their literal text.
		lit := strings.TrimSpace(string(v))
		if lit == "null" {
			return ""
		}
		return lit
	}

	return SlotExtraction{
		Location: get("location"),
		Income:   get("income"),
		Timeline: get("timeline"),
	}, nil
}
