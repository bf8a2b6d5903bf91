package chat

import "time"

// Constants for streaming configuration
const (
	DataPrefix        = "data: "
	DoneMarker        = "[DONE]"
	ChannelBufferSize = 100
	ErrorBufferSize   = 10
	ReadBufferSize    = 64 * 1024
	MaxLineSize       = 1024 * 1024
	MaxErrorBodySize  = 64 * 1024
	LockTimeout       = 15 * time.Second
)

// Constants for title synthesis
const (
	UntitledTitle    = "Untitled Chat"
	TitleTimeout     = 30 * time.Second
	TitleMaxTokens   = 5
	TitleTemperature = 0.2
	TitleInstruction = "You write concise chat titles. Given the first message of a conversation, " +
		"summarize its topic in one to five words using Title Case. " +
		"Do not use quotes, punctuation, or filler words. Reply with the title only."
)
