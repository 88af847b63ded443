package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
	"github.com/aliskhannn/quiz-deck-bot/internal/storage"
)

func (h *Handler) showCategories(chatID int64) error {
	categories := h.quizService.Categories()
	if len(categories) == 0 {
		return h.send(newPlainMessage(chatID, msgNoCategories))
	}

	msg := newMessage(chatID, msgChooseCategory())
	msg.ReplyMarkup = buildCategoryKeyboard(categories)
	return h.send(msg)
}

// showQuestion sends the displayed question of session as a new message and
// takes the buttons off the previous one.
func (h *Handler) showQuestion(chatID int64, session *service.Session) error {
	v := session.View()
	if v.Question == nil {
		msg := newMessage(chatID, msgNoQuestions(v.Category))
		msg.ReplyMarkup = buildCategoriesButtonKeyboard()
		return h.send(msg)
	}

	h.clearQuestionKeyboard(chatID)

	var imageNote string
	if photo, note := h.questionPhoto(chatID, v.Question.Image); photo != nil {
		if err := h.send(*photo); err != nil {
			imageNote = imageMissing
		}
	} else {
		imageNote = note
	}

	msg := newMessage(chatID, formatQuestion(v, imageNote))
	msg.ReplyMarkup = buildAnswerKeyboard(v)

	sent, err := h.sendMessage(msg)
	if err != nil {
		return err
	}

	h.messages.Store(storage.QuestionMessage{
		ChatID:     chatID,
		MessageID:  sent.MessageID,
		Generation: v.Generation,
	})
	return nil
}

// showFeedback rewrites the question message with the verdict of an answer.
func (h *Handler) showFeedback(chatID int64, messageID int, session *service.Session, res entities.AnswerResult) error {
	v := session.View()
	if v.Question == nil {
		return nil
	}

	kb := buildFeedbackKeyboard(v.Progress)
	edit := newEdit(chatID, messageID, formatFeedback(v, res))
	edit.ReplyMarkup = &kb

	return h.send(edit)
}

func (h *Handler) showCompletion(chatID int64, session *service.Session) error {
	h.clearQuestionKeyboard(chatID)
	h.messages.Delete(chatID)

	msg := newMessage(chatID, formatCompletion(session.Category(), session.Stats()))
	msg.ReplyMarkup = buildCompletionKeyboard()
	return h.send(msg)
}

// finish ends the chat's quiz and shows the final score.
func (h *Handler) finish(ctx context.Context, chatID int64) error {
	key := chatKey(chatID)

	session, err := h.quizService.Session(key)
	if err != nil {
		return err
	}

	stats, err := h.quizService.Finish(ctx, key)
	if err != nil {
		return err
	}

	h.clearQuestionKeyboard(chatID)
	h.messages.Delete(chatID)

	msg := newMessage(chatID, formatCompletion(session.Category(), stats))
	msg.ReplyMarkup = buildCategoriesButtonKeyboard()
	return h.send(msg)
}

// scheduleAdvance moves the chat to the next question after the configured
// delay, unless the user navigates first.
func (h *Handler) scheduleAdvance(ctx context.Context, chatID int64) {
	if h.opts.AutoAdvanceDelay <= 0 {
		return
	}

	key := chatKey(chatID)
	err := h.quizService.ScheduleAdvance(ctx, key, h.opts.AutoAdvanceDelay, func(res entities.NavResult) {
		session, err := h.quizService.Session(key)
		if err != nil {
			return
		}

		switch {
		case res.Completed:
			err = h.showCompletion(chatID, session)
		case res.Moved:
			err = h.showQuestion(chatID, session)
		}
		if err != nil {
			h.logger.Error("auto-advance failed",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	})
	if err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		h.logger.Error("failed to schedule auto-advance",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// clearQuestionKeyboard takes the buttons off the last question message of the chat.
func (h *Handler) clearQuestionKeyboard(chatID int64) {
	prev, ok := h.messages.Get(chatID)
	if !ok {
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, prev.MessageID, removeKeyboard())
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to clear question keyboard",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", prev.MessageID),
			zap.Error(err),
		)
	}
}

// questionPhoto resolves a question image. Remote images are sent by URL and
// local ones from the images directory. A local file that does not exist
// yields no photo and a note to show instead.
func (h *Handler) questionPhoto(chatID int64, image string) (*tgbotapi.PhotoConfig, string) {
	if image == "" {
		return nil, ""
	}

	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(image))
		return &photo, ""
	}

	path := localImagePath(h.opts.ImagesDir, image)
	if _, err := os.Stat(path); err != nil {
		h.logger.Warn("question image unavailable",
			zap.String("image", image),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, imageMissing
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	return &photo, ""
}

// localImagePath maps a normalized image reference ("./charts/a%20b.png") to a file path.
func localImagePath(dir, image string) string {
	rel := strings.TrimPrefix(image, "./")
	rel = strings.TrimPrefix(rel, "/")
	rel = strings.ReplaceAll(rel, "%20", " ")
	return filepath.Join(dir, filepath.FromSlash(rel))
}
