package conversation

import (
	"fmt"
	"strings"
)

// Canned responses. The frontend renders these verbatim, emoji included.
const (
	msgGreeting = "👋 Hi there! I'm your Loan Advisor Chatbot. " +
		"I can assist you with personal, home, education, vehicle, business, or MSME loans. Please let me know your requirement."
	msgIrrelevant = "❌ I can only assist with **loan-related queries** like personal, home, education, vehicle, business, or MSME loans."
	msgNoKnowledge = "❌ Couldn't find relevant knowledge — try rephrasing."
	msgFooter      = "\n\n🤖 Let me know what more I can do to help you."
)

// slotFollowUps maps each required slot to its follow-up question and the
// state tag recorded while waiting for the answer.
var slotFollowUps = map[string]struct {
	Question string
	StateTag string
}{
	SlotName:     {"🙋‍♂️ May I know your name?", StateTagAwaitingName},
	SlotLocation: {"📍 May I know your location (city/state)?", StateTagAwaitingLocation},
	SlotIncome:   {"💰 Could you please share your monthly income?", StateTagAwaitingIncome},
	SlotTimeline: {"🗓️ When are you planning to take the loan (e.g. this month, in 2 months)?", StateTagAwaitingTimeline},
}

func farewellMessage(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("👋 Glad I could help, %s! Feel free to come back anytime if you have more questions. Goodbye!", name)
}

func highIncomeMessage(income string) string {
	return fmt.Sprintf("🤔 With a monthly income of %s, are you sure you need a loan? "+
		"Please share the purpose or amount you're considering.", income)
}

// loanTypeKeywords is the fixed vocabulary used to infer a loan type when
// the extraction misses it.
var loanTypeKeywords = []string{"personal", "home", "education", "vehicle", "business", "msme"}

// relevanceKeywords short-circuit the loan-relatedness re-check.
var relevanceKeywords = append([]string{"loan"}, loanTypeKeywords...)

func webQueryPrompt(message string) string {
	return "Write a short and relevant web search query to help answer:\n'" + message + "'"
}

func summarizeLinksPrompt(links []string) string {
	return "Summarize helpful information from these links:\n" + strings.Join(links, "\n")
}

func composePrompt(message, summary, kbContext, webSummary string) string {
	return fmt.Sprintf(
		"User Query: %s\n\nUser Context: %s\n\n%s🔗 Web Info:\n%s\n\n"+
			"🎯 Provide a short, clear, and helpful response specific to Indian loan providers.",
		message, summary, kbContext, webSummary,
	)
}

func exitCheckContext(message string, params Params) string {
	return fmt.Sprintf("User Query: %s\n\nKnown Info: %s", message, params.String())
}

// responseFooterExempt lists prefixes that suppress the trailing footer on
// a composed answer (canned or already-decorated responses).
var responseFooterExempt = []string{"❌", "📍", "💰", "🗓️", "🙋‍♂️", "👋", "Sorry", "✅"}

func withFooter(answer string) string {
	trimmed := strings.TrimSpace(answer)
	for _, prefix := range responseFooterExempt {
		if strings.HasPrefix(trimmed, prefix) {
			return answer
		}
	}
	return answer + msgFooter
}
