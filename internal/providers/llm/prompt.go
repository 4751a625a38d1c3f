package llm

import "strings"

const basePrompt = `You are a warm, patient voice companion for an elderly person.
Keep replies short (one to three sentences), conversational, and easy to follow.
Speak plainly, never condescend, and never mention that you are an AI model.
Ask gentle follow-up questions to keep the conversation going.`

// BuildMessages assembles the system prompt and chat history for a request.
// Returned as (system, user) strings so each provider can map them onto its
// own message format.
func BuildMessages(req Request) (string, string) {
	var b strings.Builder
	b.WriteString(basePrompt)

	switch req.Sentiment {
	case "sad":
		b.WriteString("\nThe user sounds low right now. Acknowledge their feelings first, offer comfort, and do not rush to change the subject.")
	case "happy":
		b.WriteString("\nThe user sounds cheerful. Match their energy and encourage them to share more.")
	}

	switch req.State {
	case "medication_nudge":
		name := req.Extra["medication"]
		if name == "" {
			name = "their medication"
		}
		b.WriteString("\nGently remind the user about " + name + ". Keep it caring, not clinical.")
	case "reminiscence":
		b.WriteString("\nThe user is reminiscing. Ask warm, open questions about the memory they brought up. Follow their lead and let them talk.")
	case "patience_prompt":
		b.WriteString("\nThe user has been quiet. Softly check in and invite them to speak, without pressure.")
	case "word_of_day":
		b.WriteString("\nOffer one simple, pleasant word of the day with a short, friendly explanation.")
	}

	if ctx := strings.TrimSpace(req.Context); ctx != "" && ctx != "No previous conversations." {
		b.WriteString("\n\nRecent conversation:\n")
		b.WriteString(ctx)
	}

	return b.String(), req.UserText
}
