package eval

// Sample pairs an evaluation question with its reference answer.
type Sample struct {
	Question  string
	Reference string
}

// Dataset is the built-in question set for the Atomic Habits demo corpus.
var Dataset = []Sample{
	{
		Question:  "What is the habit loop, and how does it work?",
		Reference: "The habit loop consists of four stages: cue, craving, response, and reward. It is a feedback loop that helps create automatic habits by associating rewards with specific cues.",
	},
	{
		Question:  "How does the book explain the role of identity in habit formation?",
		Reference: "Identity-based habits focus on who you wish to become rather than what you want to achieve. Every action you take reinforces the type of person you want to be, and habits are a way to align your actions with your desired identity.",
	},
	{
		Question:  "What role does environment play in shaping habits?",
		Reference: "The environment shapes habits by providing cues that trigger behaviors. By designing your environment to make good habits easier and bad habits harder, you can influence your behavior effectively.",
	},
	{
		Question:  "What are the four laws of behavior change mentioned in the book?",
		Reference: "The four laws of behavior change are: Make it obvious, Make it attractive, Make it easy, and Make it satisfying. These laws help in creating good habits and breaking bad ones.",
	},
	{
		Question:  "What is the difference between outcome-based habits and identity-based habits?",
		Reference: "Outcome-based habits focus on the results you want to achieve, while identity-based habits focus on the type of person you want to become. Identity-based habits are more effective for long-term change.",
	},
	{
		Question:  "What does the book say about the compounding effect of habits over time?",
		Reference: "The book explains that habits compound over time, meaning that small changes can lead to significant results when consistently applied.",
	},
	{
		Question:  "What is the \"2-min rule\" and how does it help?",
		Reference: "The \"2-min rule\" suggests that when starting a new habit, it should take less than two minutes to do. This helps in overcoming procrastination and makes it easier to start new habits.",
	},
	{
		Question:  "How would you summarize the book in one sentence?",
		Reference: "The book can be summarized as a guide to building good habits and breaking bad ones through small, incremental changes.",
	},
}
