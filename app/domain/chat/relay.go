package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/domain/user"
	"menlo.ai/chat-relay/app/utils/idgen"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/app/utils/observability"
	"menlo.ai/chat-relay/config/environment_variables"
)

var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrEmptyPrompt   = errors.New("prompt must not be empty")
	ErrModelRequired = errors.New("model is required")
)

type GuestProvisioner interface {
	RegisterGuest(ctx context.Context) (*user.User, error)
}

type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Sink receives the client-facing side of an exchange. Begin is called once the prompt is stored;
// nothing is written to the client before that.
type Sink interface {
	Begin(info ExchangeInfo) error
	Fragment(content string) error
	Error(message string) error
	Done(summary ExchangeSummary) error
}

type ExchangeRequest struct {
	ConversationID     string
	Model              string
	Prompt             string
	CredentialOverride string
}

type ExchangeInfo struct {
	ConversationID string
	Created        bool
	Owner          *user.User
	GuestCreated   bool
}

type ExchangeSummary struct {
	Truncated      bool
	UpstreamFailed bool
	ReplyPersisted bool
}

type RelayConfig struct {
	AllowGuest      bool
	UpstreamTimeout time.Duration
}

func NewRelayConfig() RelayConfig {
	env := environment_variables.EnvironmentVariables
	return RelayConfig{
		AllowGuest:      env.ALLOW_GUEST,
		UpstreamTimeout: time.Duration(env.UPSTREAM_TIMEOUT_SECONDS) * time.Second,
	}
}

type RelayService struct {
	config              RelayConfig
	guests              GuestProvisioner
	conversationService *conversation.ConversationService
	credentialService   *credential.CredentialService
	formatter           *conversation.HistoryFormatter
	decoder             *StreamDecoder
	titles              *TitleSynthesizer
	locker              Locker
	tx                  TxRunner
}

func NewRelayService(
	config RelayConfig,
	guests GuestProvisioner,
	conversationService *conversation.ConversationService,
	credentialService *credential.CredentialService,
	formatter *conversation.HistoryFormatter,
	decoder *StreamDecoder,
	titles *TitleSynthesizer,
	locker Locker,
	tx TxRunner,
) *RelayService {
	return &RelayService{
		config:              config,
		guests:              guests,
		conversationService: conversationService,
		credentialService:   credentialService,
		formatter:           formatter,
		decoder:             decoder,
		titles:              titles,
		locker:              locker,
		tx:                  tx,
	}
}

type exchange struct {
	owner        *user.User
	guestCreated bool
	conv         *conversation.Conversation
	created      bool
	credential   *credential.Resolved
	messages     []openai.ChatCompletionMessage
}

// Relay runs one prompt/reply exchange. Errors returned before sink.Begin mean nothing reached the
// client and no turn was stored for the prompt. After Begin every failure is reported through the sink
// and Relay returns nil. caller is nil for anonymous requests.
func (s *RelayService) Relay(ctx context.Context, caller *user.User, req ExchangeRequest, sink Sink) error {
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" {
		return ErrModelRequired
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return ErrEmptyPrompt
	}

	// Storage and upstream work outlive the client connection.
	workCtx := context.WithoutCancel(ctx)

	ex, err := s.prepare(ctx, workCtx, caller, req)
	if err != nil {
		observability.Exchanges.WithLabelValues(observability.OutcomeRejected).Inc()
		return err
	}

	log := logger.WithContext(ctx).WithFields(logrus.Fields{
		"conversation_id": ex.conv.PublicID,
		"user_id":         ex.owner.PublicID,
		"model":           req.Model,
	})

	if err := sink.Begin(ExchangeInfo{
		ConversationID: ex.conv.PublicID,
		Created:        ex.created,
		Owner:          ex.owner,
		GuestCreated:   ex.guestCreated,
	}); err != nil {
		log.Warnf("client went away before streaming: %v", err)
		observability.Exchanges.WithLabelValues(observability.OutcomeDisconnected).Inc()
		return nil
	}

	reply, summary, disconnected, transportErr := s.streamUpstream(ctx, workCtx, ex, req, sink)

	if reply != "" {
		if _, err := s.conversationService.AppendTurn(workCtx, ex.conv, conversation.RoleAssistant, reply, req.Model, &ex.owner.ID); err != nil {
			log.WithField("error_code", "9c2e5b17-4a08-4d3f-b6e1-8f7a0c3d5e92").
				Errorf("failed to persist reply: %v", err)
		} else {
			summary.ReplyPersisted = true
		}
	}

	observability.Exchanges.WithLabelValues(outcome(summary, disconnected, reply)).Inc()
	if disconnected {
		log.Info("client disconnected during streaming")
		return nil
	}

	if transportErr != nil {
		if err := sink.Error("The reply was interrupted before it finished."); err != nil {
			log.Warnf("failed to report interruption: %v", err)
		}
	}
	if !summary.ReplyPersisted && reply != "" {
		if err := sink.Error("The reply could not be saved."); err != nil {
			log.Warnf("failed to report persistence failure: %v", err)
		}
	}
	if err := sink.Done(summary); err != nil {
		log.Warnf("failed to finish stream: %v", err)
	}
	return nil
}

// prepare covers every step up to and including storing the prompt.
func (s *RelayService) prepare(ctx context.Context, workCtx context.Context, caller *user.User, req ExchangeRequest) (*exchange, error) {
	if caller == nil && !s.config.AllowGuest {
		return nil, ErrAuthRequired
	}

	// Credentials are resolved before anything is written so a missing key leaves no trace.
	anonymous := caller == nil || caller.IsGuest
	credCaller := credential.Caller{Anonymous: anonymous}
	if caller != nil {
		credCaller.UserID = caller.ID
	}
	resolved, err := s.credentialService.Resolve(workCtx, credCaller, req.CredentialOverride)
	if err != nil {
		return nil, err
	}

	conversationID := idgen.NewConversationID()
	if req.ConversationID != "" {
		normalized, ok := idgen.NormalizeConversationID(req.ConversationID)
		if !ok {
			return nil, conversation.ErrConversationNotFound
		}
		conversationID = normalized
		// A fresh guest cannot own an existing conversation.
		if caller == nil {
			taken, err := s.conversationService.Exists(workCtx, conversationID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, conversation.ErrConversationNotFound
			}
		}
	}

	ex := &exchange{credential: resolved}
	ex.owner, ex.guestCreated, err = s.resolveOwner(workCtx, caller)
	if err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	unlock, err := s.locker.Lock(lockCtx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock conversation: %w", err)
	}
	defer unlock()

	err = s.tx.RunInTx(workCtx, func(txCtx context.Context) error {
		conv, created, err := s.resolveConversation(txCtx, conversationID, ex.owner.ID)
		if err != nil {
			return err
		}
		turns, err := s.conversationService.ListOrderedTurns(txCtx, conv.ID)
		if err != nil {
			return err
		}
		history := s.formatter.Format(turns)
		if history.SeedRequired {
			if _, err := s.conversationService.AppendTurn(txCtx, conv, conversation.RoleSystem, s.formatter.SystemPrompt(), req.Model, &ex.owner.ID); err != nil {
				return err
			}
		}
		if _, err := s.conversationService.AppendTurn(txCtx, conv, conversation.RoleUser, req.Prompt, req.Model, &ex.owner.ID); err != nil {
			return err
		}
		ex.conv, ex.created = conv, created
		ex.messages = append(history.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		})
		return nil
	})
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store prompt: %w", err)
	}
	if ex.created {
		s.titles.Schedule(ex.conv, resolved.APIKey, req.Prompt)
	}
	return ex, nil
}

func (s *RelayService) resolveOwner(ctx context.Context, caller *user.User) (*user.User, bool, error) {
	if caller != nil {
		return caller, false, nil
	}
	guest, err := s.guests.RegisterGuest(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create guest identity: %w", err)
	}
	return guest, true, nil
}

// resolveConversation reuses the owner's conversation, creates it when the id is unused, and reports
// ErrConversationNotFound when another owner holds the id.
func (s *RelayService) resolveConversation(ctx context.Context, publicID string, ownerID uint) (*conversation.Conversation, bool, error) {
	conv, err := s.conversationService.FindConversation(ctx, publicID, ownerID)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, conversation.ErrConversationNotFound) {
		return nil, false, err
	}
	taken, err := s.conversationService.Exists(ctx, publicID)
	if err != nil {
		return nil, false, err
	}
	if taken {
		return nil, false, conversation.ErrConversationNotFound
	}
	conv, err = s.conversationService.CreateConversation(ctx, publicID, ownerID, conversation.PlaceholderTitle)
	if err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// streamUpstream forwards fragments and returns the text the sink accepted. A disconnect cancels
// upstream; fragments still buffered after that are dropped.
func (s *RelayService) streamUpstream(ctx context.Context, workCtx context.Context, ex *exchange, req ExchangeRequest, sink Sink) (string, ExchangeSummary, bool, error) {
	streamCtx, cancel := s.upstreamContext(workCtx)
	defer cancel()

	started := time.Now()
	fragments, errs := s.decoder.Stream(streamCtx, ex.credential.APIKey, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: ex.messages,
	})

	var (
		reply        strings.Builder
		summary      ExchangeSummary
		disconnected bool
		received     bool
	)
	clientGone := ctx.Done()
	for fragments != nil {
		select {
		case f, ok := <-fragments:
			if !ok {
				fragments = nil
				continue
			}
			if disconnected {
				continue
			}
			if !received {
				received = true
				observability.ObserveFirstFragmentLatency(time.Since(started))
			}
			var err error
			if f.IsError {
				err = sink.Error(f.Content)
			} else {
				err = sink.Fragment(f.Content)
			}
			if err != nil {
				disconnected = true
				cancel()
				continue
			}
			reply.WriteString(f.Content)
			if f.IsError {
				summary.UpstreamFailed = true
			} else {
				observability.Fragments.Inc()
			}
		case <-clientGone:
			clientGone = nil
			disconnected = true
			cancel()
		}
	}

	var transportErr error
	for err := range errs {
		if err != nil && transportErr == nil {
			transportErr = err
		}
	}
	summary.Truncated = transportErr != nil || disconnected
	return reply.String(), summary, disconnected, transportErr
}

func (s *RelayService) upstreamContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.config.UpstreamTimeout > 0 {
		return context.WithTimeout(parent, s.config.UpstreamTimeout)
	}
	return context.WithCancel(parent)
}

func outcome(summary ExchangeSummary, disconnected bool, reply string) string {
	switch {
	case disconnected:
		return observability.OutcomeDisconnected
	case summary.UpstreamFailed:
		return observability.OutcomeUpstreamError
	case summary.Truncated:
		return observability.OutcomeTruncated
	case reply == "":
		return observability.OutcomeEmpty
	default:
		return observability.OutcomeCompleted
	}
}
