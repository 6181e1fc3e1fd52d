package intent

import "yara_assistant/pkg"

// exemplars are the reference utterances each intent is compared against
var exemplars = map[pkg.Intent][]string{
	pkg.IntentRevenueQuery: {
		"What was our revenue last quarter?",
		"How much money did we make?",
		"What are our earnings?",
	},
	pkg.IntentCustomerQuery: {
		"How many customers do we have?",
		"Show me customer information",
		"List our clients",
	},
	pkg.IntentProductQuery: {
		"What products do we offer?",
		"Show me our inventory",
		"What are our prices?",
	},
	pkg.IntentGreeting: {
		"Hello, how are you?",
		"Hi there!",
		"Good morning!",
		"Hey, what's up?",
	},
	pkg.IntentPersonalQuestion: {
		"Who are you?",
		"What's your name?",
		"Tell me about yourself",
		"What can you do?",
	},
	pkg.IntentGratitude: {
		"Thank you!",
		"Thanks a lot",
		"I appreciate it",
		"Great job!",
	},
	pkg.IntentFarewell: {
		"Goodbye!",
		"See you later",
		"Take care",
		"Have a good day!",
	},
	pkg.IntentMemoryQuery: {
		"What is my name?",
		"What's my favorite color?",
		"Where do I live?",
		"Do you know my name?",
	},
	pkg.IntentMemoryStore: {
		"My name is Alex",
		"I like blue",
		"I live in New York",
		"Call me John",
	},
	pkg.IntentMemoryManage: {
		"Forget my name",
		"What do you remember?",
		"Clear my information",
	},
	pkg.IntentGeneralChat: {
		"Tell me a joke",
		"What's the weather like?",
		"How's it going?",
		"What's new?",
	},
}

// Exemplars returns a copy of the reference utterances for one intent
func Exemplars(intent pkg.Intent) []string {
	out := make([]string, len(exemplars[intent]))
	copy(out, exemplars[intent])
	return out
}
