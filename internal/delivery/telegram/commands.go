package telegram

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

// handleStart greets the user and shows the categories once the gate is passed.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		authorized := h.access.Authorized(chatKey(chatID))
		if err := h.send(newMessage(chatID, msgWelcome(authorized))); err != nil {
			return err
		}

		if !authorized {
			return nil
		}
		return h.showCategories(chatID)
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newMessage(chatID, msgHelp()))
	}
}

// handleText treats free text from a locked chat as a password attempt.
func (h *Handler) handleText(text string) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		key := chatKey(chatID)
		if h.access.Authorized(key) {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		if err := h.access.Login(key, strings.TrimSpace(text)); err != nil {
			if errors.Is(err, service.ErrWrongPassword) {
				h.logger.Info("wrong password", zap.Int64("chat_id", chatID))
				return h.send(newPlainMessage(chatID, msgWrongPassword))
			}
			return err
		}

		h.logger.Info("chat unlocked", zap.Int64("chat_id", chatID))
		if err := h.send(newMessage(chatID, msgUnlocked())); err != nil {
			return err
		}
		return h.showCategories(chatID)
	}
}

func (h *Handler) handleCategories() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.showCategories(chatID)
	}
}

func (h *Handler) handleSearch(query string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if isBlank(query) {
			return h.send(newPlainMessage(chatID, msgSearchUsage))
		}

		session, err := h.quizService.StartSearch(ctx, chatKey(chatID), query)
		if err != nil {
			if errors.Is(err, service.ErrEmptyQuery) {
				return h.send(newPlainMessage(chatID, msgSearchUsage))
			}
			return err
		}

		h.logger.Debug("search started",
			zap.Int64("chat_id", chatID),
			zap.String("query", query),
			zap.Int("questions", session.Len()),
		)

		return h.showQuestion(chatID, session)
	}
}

func (h *Handler) handleNext() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		key := chatKey(chatID)

		res, err := h.quizService.Next(ctx, key)
		if err != nil {
			return err
		}

		session, err := h.quizService.Session(key)
		if err != nil {
			return err
		}

		if res.Completed {
			return h.showCompletion(chatID, session)
		}
		return h.showQuestion(chatID, session)
	}
}

func (h *Handler) handlePrev() HandlerFunc {
	return h.withSession(func(s *service.Session) { s.Previous() })
}

func (h *Handler) handleShuffle() HandlerFunc {
	return h.withSession(func(s *service.Session) { s.ShuffleAll() })
}

func (h *Handler) handleShuffleAnswers() HandlerFunc {
	return h.withSession(func(s *service.Session) { s.ShuffleCurrentAnswers() })
}

// withSession applies op to the chat's session and shows the resulting question.
func (h *Handler) withSession(op func(s *service.Session)) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		session, err := h.quizService.Session(chatKey(chatID))
		if err != nil {
			return err
		}

		op(session)
		return h.showQuestion(chatID, session)
	}
}

func (h *Handler) handleStats() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		key := chatKey(chatID)

		if session, err := h.quizService.Session(key); err == nil {
			if err := h.send(newMessage(chatID, formatSessionStats(session.View()))); err != nil {
				return err
			}
		}

		summary, err := h.statsService.Summary(ctx, key)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatSummary(summary)))
	}
}

func (h *Handler) handleReload() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		res := h.quizService.Reload(ctx)

		h.logger.Info("questions reloaded from chat",
			zap.Int64("chat_id", chatID),
			zap.Int("questions", res.Questions),
			zap.Int("rejected", len(res.Rejected)),
			zap.Bool("from_sample", res.FromSample),
		)

		return h.send(newMessage(chatID, formatLoadResult(res)))
	}
}

func (h *Handler) handleLogout() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		key := chatKey(chatID)

		if _, err := h.quizService.Finish(ctx, key); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
			return err
		}
		h.clearQuestionKeyboard(chatID)
		h.messages.Delete(chatID)
		h.access.Logout(key)

		return h.send(newPlainMessage(chatID, msgLoggedOut))
	}
}
