package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, service.ErrSessionNotFound):
			_ = h.send(newMessage(chatID, msgNoActiveQuiz()))
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			_ = h.send(newPlainMessage(chatID, msgInternalError))
		}
		return nil
	}
}

// withAccess runs fn only for chats that passed the password gate.
func (h *Handler) withAccess(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !h.access.Authorized(chatKey(chatID)) {
			return h.send(newMessage(chatID, msgPasswordPrompt()))
		}
		return fn(ctx, chatID)
	}
}
