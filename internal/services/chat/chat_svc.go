package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"truekki/internal/store"
)

var ErrMissingFields = errors.New("sender, recipient and message body are required")

type Store interface {
	InsertMessage(ctx context.Context, m *store.Message) error
	Conversation(ctx context.Context, userA, userB string) ([]store.Message, error)
}

type IChatService interface {
	Send(ctx context.Context, senderID, recipientID, body string) (*store.Message, error)
	Conversation(ctx context.Context, userA, userB string) ([]store.Message, error)
}

type chatService struct {
	st Store
}

func NewChatService(st Store) IChatService { return &chatService{st: st} }

func (svc *chatService) Send(ctx context.Context, senderID, recipientID, body string) (*store.Message, error) {
	if senderID == "" || recipientID == "" || body == "" {
		return nil, ErrMissingFields
	}
	m := &store.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      time.Now().UTC(),
	}
	if err := svc.st.InsertMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

func (svc *chatService) Conversation(ctx context.Context, userA, userB string) ([]store.Message, error) {
	if userA == "" || userB == "" {
		return nil, ErrMissingFields
	}
	msgs, err := svc.st.Conversation(ctx, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("conversation %s/%s: %w", userA, userB, err)
	}
	return msgs, nil
}
