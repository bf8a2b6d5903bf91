package config

// Version is overridden at build time via -ldflags "-X menlo.ai/chat-relay/config.Version=..."
var Version = "dev"
