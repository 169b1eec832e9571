package ollama

import "strings"

// Demo mode mirrors the hosted model closely enough for local development
// without an API key. Only the chat and interaction calls have canned
// variants; image analysis always needs the real model.

func demoChat(message string) string {
	if strings.Contains(strings.ToLower(message), "aspirin") {
		return "**Aspirin (Acetylsalicylic Acid)**\n\nUsed for pain, fever, inflammation.\n\n" +
			"**Warnings:** Stomach ulcers, bleeding risk."
	}
	return "I can help with drug info, interactions, and side effects. What do you need?"
}

func demoInteractions(medicines []string) *InteractionAnalysis {
	lowered := make([]string, len(medicines))
	for i, m := range medicines {
		lowered[i] = strings.ToLower(m)
	}

	contains := func(name string) bool {
		for _, m := range lowered {
			if strings.Contains(m, name) {
				return true
			}
		}
		return false
	}

	result := &InteractionAnalysis{Interactions: []DrugInteraction{}, SafetyScore: 95}

	if contains("aspirin") && contains("warfarin") {
		result.Interactions = append(result.Interactions, DrugInteraction{
			DrugA:       "Aspirin",
			DrugB:       "Warfarin",
			Severity:    "severe",
			Description: "Combined use significantly increases bleeding risk.",
			Management:  "Avoid combination unless directed by a physician.",
		})
		result.SafetyScore = 45
	}

	return result
}
