package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	if !h.access.Authorized(chatKey(chatID)) {
		h.answerCallback(cb.ID, "")
		_ = h.send(newMessage(chatID, msgPasswordPrompt()))
		return
	}

	cd := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch cd.Action {
	case actionCategory:
		fn = h.handleCategoryCallback(cb, cd)
	case actionAnswer:
		fn = h.handleAnswerCallback(cb, cd)
	case actionNav:
		fn = h.handleNavCallback(cb, cd)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) handleCategoryCallback(cb *tgbotapi.CallbackQuery, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		idx, tag, err := cd.category()
		if err != nil {
			h.answerCallback(cb.ID, "")
			return err
		}

		categories := h.quizService.Categories()
		if idx >= len(categories) || categoryTag(categories[idx].Name) != tag {
			h.answerCallback(cb.ID, msgCategoryGone)
			return h.showCategories(chatID)
		}

		h.answerCallback(cb.ID, "")

		category := categories[idx].Name
		session := h.quizService.StartCategory(ctx, chatKey(chatID), category)

		h.logger.Debug("category selected",
			zap.Int64("chat_id", chatID),
			zap.String("category", category),
			zap.Int("questions", session.Len()),
		)

		return h.showQuestion(chatID, session)
	}
}

func (h *Handler) handleAnswerCallback(cb *tgbotapi.CallbackQuery, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		generation, option, err := cd.answer()
		if err != nil {
			h.answerCallback(cb.ID, "")
			return err
		}

		session, err := h.quizService.Session(chatKey(chatID))
		if err != nil {
			h.answerCallback(cb.ID, "")
			return err
		}

		res, err := session.SubmitAt(generation, option)
		switch {
		case errors.Is(err, service.ErrAlreadyAnswered):
			h.answerCallback(cb.ID, msgAlreadyAnswered)
			return nil
		case errors.Is(err, service.ErrStaleQuestion),
			errors.Is(err, service.ErrInvalidOption),
			errors.Is(err, service.ErrNoQuestions):
			h.answerCallback(cb.ID, msgStaleQuestion)
			return nil
		case err != nil:
			h.answerCallback(cb.ID, "")
			return err
		}

		toast := "❌ Wrong"
		if res.IsCorrect {
			toast = "✅ Correct!"
		}
		h.answerCallback(cb.ID, toast)

		if err := h.showFeedback(chatID, cb.Message.MessageID, session, res); err != nil {
			return err
		}

		if res.IsCorrect {
			h.scheduleAdvance(ctx, chatID)
		}
		return nil
	}
}

func (h *Handler) handleNavCallback(cb *tgbotapi.CallbackQuery, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answerCallback(cb.ID, "")

		sub, err := cd.nav()
		if err != nil {
			return err
		}

		switch sub {
		case navNext:
			return h.handleNext()(ctx, chatID)
		case navPrev:
			return h.handlePrev()(ctx, chatID)
		case navShuffle:
			return h.handleShuffle()(ctx, chatID)
		case navShuffleAnswers:
			return h.handleShuffleAnswers()(ctx, chatID)
		case navCategories:
			return h.showCategories(chatID)
		case navFinish:
			return h.finish(ctx, chatID)
		default:
			h.logger.Warn("unknown nav callback", zap.String("data", cd.Raw))
			return nil
		}
	}
}
