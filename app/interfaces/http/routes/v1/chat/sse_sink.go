package chat

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/sjson"
	"menlo.ai/chat-relay/app/domain/auth"
	"menlo.ai/chat-relay/app/domain/chat"
	"menlo.ai/chat-relay/app/utils/logger"
)

const (
	EventMeta     = "meta"
	EventFragment = "fragment"
	EventError    = "error"
	EventDone     = "done"
)

// SSESink writes relay events as server-sent events, flushing after each one.
type SSESink struct {
	reqCtx      *gin.Context
	authService *auth.AuthService
}

func NewSSESink(reqCtx *gin.Context, authService *auth.AuthService) *SSESink {
	return &SSESink{
		reqCtx:      reqCtx,
		authService: authService,
	}
}

func (s *SSESink) Begin(info chat.ExchangeInfo) error {
	header := s.reqCtx.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	if info.GuestCreated {
		token, err := s.authService.IssueAccessToken(info.Owner, auth.GuestTokenTTL)
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "e7a4c2d9-1b38-4f06-9c5e-3a8d7f2b1e64").
				Errorf("failed to issue guest token: %v", err)
		} else {
			header.Set(auth.GuestTokenHeader, token)
		}
	}
	s.reqCtx.Status(http.StatusOK)

	payload, err := sjson.Set("{}", "conversation_id", info.ConversationID)
	if err != nil {
		return err
	}
	payload, err = sjson.Set(payload, "created", info.Created)
	if err != nil {
		return err
	}
	return s.write(EventMeta, payload)
}

func (s *SSESink) Fragment(content string) error {
	payload, err := sjson.Set("{}", "content", content)
	if err != nil {
		return err
	}
	return s.write(EventFragment, payload)
}

func (s *SSESink) Error(message string) error {
	payload, err := sjson.Set("{}", "message", message)
	if err != nil {
		return err
	}
	return s.write(EventError, payload)
}

func (s *SSESink) Done(summary chat.ExchangeSummary) error {
	payload, err := sjson.Set("{}", "truncated", summary.Truncated)
	if err != nil {
		return err
	}
	return s.write(EventDone, payload)
}

func (s *SSESink) write(event string, payload string) error {
	if _, err := fmt.Fprintf(s.reqCtx.Writer, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.reqCtx.Writer.Flush()
	return nil
}
