package logger

import (
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"menlo.ai/chat-relay/app/utils/contextkeys"
	"menlo.ai/chat-relay/config/environment_variables"
)

var (
	instance *logrus.Logger
	once     sync.Once
)

func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.JSONFormatter{})
		level, err := logrus.ParseLevel(environment_variables.EnvironmentVariables.LOG_LEVEL)
		if err != nil {
			level = logrus.InfoLevel
		}
		instance.SetLevel(level)
	})
	return instance
}

// WithContext tags the entry with the request id set by the HTTP logger middleware, when present.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(GetLogger())
	if requestID, ok := ctx.Value(contextkeys.RequestId{}).(string); ok && requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	return entry
}
