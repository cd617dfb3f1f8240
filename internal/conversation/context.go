package conversation

import "strings"

// BuildSummary renders the accumulated parameters as the context paragraph
// fed to retrieval and composition prompts.
func BuildSummary(p Params) string {
	loanType := p[ParamLoanType]
	if loanType == "" {
		loanType = "loan"
	}

	var b strings.Builder
	if p.Has(SlotName) {
		b.WriteString("User Name: " + p[SlotName] + "\n")
	}
	b.WriteString("You are looking for a " + loanType +
		" in " + p[SlotLocation] +
		" with a monthly income of " + p[SlotIncome] +
		", planning to apply in " + p[SlotTimeline])
	if p.Has(ParamAssumedLoanSize) {
		b.WriteString(". Based on your income, it appears you may be seeking a " + p[ParamAssumedLoanSize] + " loan")
	}
	if p.Has(ParamLoanAmount) {
		b.WriteString(". The user is considering a loan amount of " + p[ParamLoanAmount])
	}
	b.WriteString(".")
	return b.String()
}

// AggregateHistory folds an ordered session history into one parameter set
// (earliest value wins per key — later turns only fill gaps) and a
// transcript of the exchanges.
func AggregateHistory(turns []Turn) (Params, []string) {
	params := Params{}
	var transcript []string

	for _, t := range turns {
		if t.UserMessage != "" && t.BotResponse != "" {
			transcript = append(transcript, "User: "+t.UserMessage+"\nBot: "+t.BotResponse)
		}
		for k, v := range t.Params {
			if !params.Has(k) && strings.TrimSpace(v) != "" {
				params[k] = v
			}
		}
	}

	return params, transcript
}
