// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// chat.go sequences a user utterance into a remote request and transcript appends.
package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/docchat/docchat/internal/domain/conversation"
	"github.com/docchat/docchat/internal/domain/entities"
	"github.com/docchat/docchat/internal/domain/ports"
	"github.com/docchat/docchat/internal/infrastructure/logging"
)

// Fixed, role-appropriate failure texts. Raw transport errors never
// reach the transcript.
const (
	// MsgConnectFailed is appended when the service could not be contacted.
	MsgConnectFailed = "Error connecting to server."
	// MsgReplyFailed is appended when the service was reached but the
	// reply was rejected or unusable.
	MsgReplyFailed = "Error getting response. Please try again."
)

// ChatCoordinator sequences chat messages against the remote service.
// Single Responsibility: Only chat logic - ingestion lives in IngestionCoordinator.
type ChatCoordinator struct {
	chat           ports.ChatService
	convo          *conversation.Conversation
	includeHistory bool
	log            *logging.Logger
}

// NewChatCoordinator creates a ChatCoordinator with injected dependencies.
// includeHistory controls whether each request carries the prior
// transcript or only the latest message; it is a deliberate, named
// option because remote contracts differ on this point.
func NewChatCoordinator(
	chat ports.ChatService,
	convo *conversation.Conversation,
	includeHistory bool,
	log *logging.Logger,
) *ChatCoordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &ChatCoordinator{
		chat:           chat,
		convo:          convo,
		includeHistory: includeHistory,
		log:            log,
	}
}

// SendMessage submits a user utterance and appends the outcome.
//
// Guarantees: a non-blank call appends exactly one user turn and exactly
// one assistant turn (reply or failure notice), and the gate is released
// by the time it returns. Remote failures never escape as errors; the
// only error returned is conversation.ErrActionInFlight when the gate
// is already held.
func (c *ChatCoordinator) SendMessage(ctx context.Context, text string) error {
	// 1. Blank input is a silent no-op: no turn, no request, no gate change.
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// 2. Snapshot the prior transcript before the user turn lands, so a
	// history-bearing request does not duplicate the latest message.
	var history []entities.Turn
	if c.includeHistory {
		history = c.convo.Turns()
	}

	// 3. Acquire the gate before touching the transcript, so a rejected
	// call leaves no unpaired user turn behind.
	if err := c.convo.Begin(); err != nil {
		return err
	}
	defer c.convo.End()

	// 4. Append the user turn immediately, before the remote call
	// resolves, for instant feedback.
	c.convo.Append(entities.NewUserTurn(text))

	// 5. Issue the request and append the outcome.
	reply, err := c.chat.Send(ctx, text, history)
	if err != nil {
		c.log.Error("chat request failed", "error", err)
		c.convo.Append(entities.NewAssistantTurn(failureText(err), nil))
		return nil
	}

	c.convo.Append(entities.NewAssistantTurn(reply.Text, reply.Sources))
	return nil
}

// failureText maps a classified service error onto its fixed transcript text.
func failureText(err error) string {
	if errors.Is(err, ports.ErrUnreachable) {
		return MsgConnectFailed
	}
	return MsgReplyFailed
}
