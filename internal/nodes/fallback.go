package nodes

import (
	"strings"
	"yara_assistant/pkg"
)

// fallbacks is the canned response for every intent
var fallbacks = map[pkg.Intent]string{
	pkg.IntentRevenueQuery:     "I'm sorry, I couldn't retrieve the revenue information at the moment. Please try again later or contact our support team.",
	pkg.IntentCustomerQuery:    "I'm unable to access customer data right now. Please check back later or reach out to our team for assistance.",
	pkg.IntentProductQuery:     "I'm having trouble accessing product information. Please try again later or contact our support team.",
	pkg.IntentGreeting:         "Hi there! I'm Yara, and I'm so excited to meet you! 😊 How can I help you today?",
	pkg.IntentPersonalQuestion: "I'm Yara, your friendly AI assistant! I'm here to help with conversations, answer questions, and provide insights from your data. I love being helpful and making our chats enjoyable! ✨",
	pkg.IntentGratitude:        "You're very welcome! I'm so glad I could help! 😊 It makes me happy when I can be useful to you.",
	pkg.IntentFarewell:         "Goodbye! It was wonderful chatting with you! Take care and come back anytime - I'll be here ready to help! 👋✨",
	pkg.IntentMemoryQuery:      "I'm not sure I understood that question. Could you rephrase it or ask me something else? 🤔",
	pkg.IntentMemoryStore:      "I'm not sure I understood that. Could you rephrase it or ask me something else? 🤔",
	pkg.IntentMemoryManage:     "I'm not sure I understood that request. Could you rephrase it or ask me something else? 🤔",
	pkg.IntentGeneralChat:      "I'm not sure I understood that, could you rephrase? 🤔",
}

// personalAnswers are checked in order before the generic personal_question entry
var personalAnswers = []struct {
	phrase   string
	response string
}{
	{"who are you", fallbacks[pkg.IntentPersonalQuestion]},
	{"what's your name", "My name is Yara! I'm your friendly AI assistant, and I'm excited to help you with whatever you need! 😊"},
	{"tell me about yourself", "I'm Yara, a friendly and enthusiastic AI assistant! I love helping people, answering questions, and making conversations enjoyable. I'm here to assist you with both general chat and data insights! ✨"},
	{"what can you do", "I can help you with conversations, answer questions, provide insights from your data, and be a friendly chat companion! I'm Yara, and I'm excited to assist you! 😊"},
}

// Fallback returns the canned response for intent
func Fallback(intent pkg.Intent, utterance string) string {
	if intent == pkg.IntentPersonalQuestion {
		lower := strings.ToLower(utterance)
		for _, answer := range personalAnswers {
			if strings.Contains(lower, answer.phrase) {
				return answer.response
			}
		}
	}

	if response, ok := fallbacks[intent]; ok {
		return response
	}
	return fallbacks[pkg.IntentGeneralChat]
}

// conversational intents are always answered from the fallback table
func conversational(intent pkg.Intent) bool {
	switch intent {
	case pkg.IntentGreeting,
		pkg.IntentPersonalQuestion,
		pkg.IntentGratitude,
		pkg.IntentFarewell,
		pkg.IntentMemoryQuery,
		pkg.IntentMemoryStore,
		pkg.IntentMemoryManage:
		return true
	}
	return false
}
