// Package httpapi exposes quiz sessions as a JSON API.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

type Handler struct {
	quizService  QuizService
	statsService StatsService
	access       AccessService
	logger       *zap.Logger
}

func NewHandler(quizService QuizService, statsService StatsService, access AccessService, logger *zap.Logger) *Handler {
	return &Handler{
		quizService:  quizService,
		statsService: statsService,
		access:       access,
		logger:       logger,
	}
}

// Routes builds the API router. allowedOrigins configures CORS.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.Recoverer, h.withLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", PasswordHeader, UserHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(h.withAccess)

		r.Get("/categories", h.ListCategories)
		r.Post("/reload", h.Reload)
		r.Get("/stats", h.Stats)
		r.Post("/sessions", h.StartSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.FinishSession)
			r.Post("/answer", h.Answer)
			r.Post("/next", h.Next)
			r.Post("/previous", h.sessionOp(func(s *service.Session) { s.Previous() }))
			r.Post("/shuffle", h.sessionOp(func(s *service.Session) { s.ShuffleAll() }))
			r.Post("/shuffle-answers", h.sessionOp(func(s *service.Session) { s.ShuffleCurrentAnswers() }))
		})
	})

	return r
}

func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.quizService.Categories()})
}

type reloadResponse struct {
	Questions  int      `json:"questions"`
	Rejected   []string `json:"rejected,omitempty"`
	FromSample bool     `json:"from_sample"`
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	res := h.quizService.Reload(r.Context())

	resp := reloadResponse{Questions: res.Questions, FromSample: res.FromSample}
	for _, rej := range res.Rejected {
		resp.Rejected = append(resp.Rejected, rej.Error())
	}

	writeJSON(w, http.StatusOK, resp)
}

type startRequest struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

// StartSession starts a quiz over a category or, when query is set, over the
// search results. A category without questions yields a session with no
// question. With UserHeader set, the results are recorded under that user.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, errInvalidBody)
		return
	}

	var (
		session *service.Session
		err     error
	)
	switch {
	case req.Query != "":
		session, err = h.quizService.StartSearch(r.Context(), "", req.Query)
	case req.Category != "":
		session = h.quizService.StartCategory(r.Context(), "", req.Category)
	default:
		err = errInvalidBody
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
		session.SetOwner(user)
	}

	writeJSON(w, http.StatusCreated, session.View())
}

// Stats returns the result history summary of the user named by UserHeader.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.Header.Get(UserHeader))
	if user == "" {
		h.fail(w, r, errMissingUser)
		return
	}

	summary, err := h.statsService.Summary(r.Context(), user)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.quizService.Session(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

type answerRequest struct {
	Index      *int    `json:"index"`
	Generation *uint64 `json:"generation,omitempty"`
}

type answerResponse struct {
	Result  entities.AnswerResult `json:"result"`
	Session entities.SessionView  `json:"session"`
}

// Answer submits an option of the displayed question. With generation set the
// answer is rejected if the question changed in the meantime.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	session, err := h.quizService.Session(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		h.fail(w, r, errInvalidBody)
		return
	}

	var res entities.AnswerResult
	if req.Generation != nil {
		res, err = session.SubmitAt(*req.Generation, *req.Index)
	} else {
		res, err = session.Submit(*req.Index)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{Result: res, Session: session.View()})
}

type navResponse struct {
	Nav     entities.NavResult   `json:"nav"`
	Session entities.SessionView `json:"session"`
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	nav, err := h.quizService.Next(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	session, err := h.quizService.Session(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, navResponse{Nav: nav, Session: session.View()})
}

// sessionOp applies op to the session and returns its new view.
func (h *Handler) sessionOp(op func(s *service.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.quizService.Session(chi.URLParam(r, "id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}

		op(session)
		writeJSON(w, http.StatusOK, session.View())
	}
}

func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quizService.Finish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
