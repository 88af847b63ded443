package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
	"github.com/aliskhannn/quiz-deck-bot/internal/storage"
)

const testCSV = "category,question,a1,a2,a3,a4,correct,image,explanation\n" +
	"Math,What is 2+2?,3,4,5,6,2,,Basic addition\n" +
	"Math,What is 3x7?,18,21,24,28,2\n" +
	"Science,What is H2O?,Oxygen,Hydrogen,Water,Helium,3\n"

const password = "secret"

type stringFetcher string

func (f stringFetcher) Fetch(context.Context, string) (string, error) { return string(f), nil }

type identityRand struct{}

func (identityRand) Intn(n int) int { return n - 1 }

type testAPI struct {
	srv     *httptest.Server
	results *storage.ResultStorage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := zap.NewNop()
	questions := repository.NewQuestionRepository(
		stringFetcher(testCSV),
		repository.NewParser(logger, repository.ParserOptions{}),
		logger,
		repository.SourceOptions{Source: "questions.csv"},
	)
	questions.Load(context.Background())

	results := storage.NewResultStorage()
	quiz := service.NewQuizService(questions, results, storage.NewSessionStorage[*service.Session](), identityRand{}, logger)
	access := service.NewAccessService(password, storage.NewAccessStorage())

	srv := httptest.NewServer(NewHandler(quiz, service.NewStatsService(results), access, logger).Routes([]string{"*"}))
	t.Cleanup(srv.Close)

	return &testAPI{srv: srv, results: results}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	return a.doAs(t, "", method, path, body, out)
}

// doAs sends the request with UserHeader set to user when it is not empty.
func (a *testAPI) doAs(t *testing.T, user, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set(PasswordHeader, password)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testAPI) start(t *testing.T, category string) entities.SessionView {
	t.Helper()

	var view entities.SessionView
	status := a.do(t, http.MethodPost, "/api/sessions", startRequest{Category: category}, &view)
	require.Equal(t, http.StatusCreated, status)
	return view
}

func TestHealthzNeedsNoPassword(t *testing.T) {
	api := newTestAPI(t)

	resp, err := api.srv.Client().Get(api.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordRequired(t *testing.T) {
	api := newTestAPI(t)

	resp, err := api.srv.Client().Get(api.srv.URL + "/api/categories")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, errUnauthorized.Error(), body.Error)
}

func TestListCategories(t *testing.T) {
	api := newTestAPI(t)

	var body struct {
		Categories []entities.Category `json:"categories"`
	}
	status := api.do(t, http.MethodGet, "/api/categories", nil, &body)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "Math", body.Categories[0].Name)
	assert.Equal(t, 2, body.Categories[0].Count)
}

func TestSessionLifecycle(t *testing.T) {
	api := newTestAPI(t)

	view := api.start(t, "Math")
	require.NotNil(t, view.Question)
	assert.Equal(t, "Math", view.Category)
	assert.Equal(t, 2, view.Progress.Total)

	var answered answerResponse
	status := api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer", map[string]int{"index": 1}, &answered)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, answered.Result.IsCorrect)
	assert.True(t, answered.Session.Answered)

	var errBody errorResponse
	status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer", map[string]int{"index": 0}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	var nav navResponse
	status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/next", nil, &nav)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, nav.Nav.Moved)
	assert.Equal(t, 1, nav.Session.Progress.Index)

	status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/next", nil, &nav)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, nav.Nav.Completed)

	var prev entities.SessionView
	status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/previous", nil, &prev)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, prev.Progress.Index)

	var finished struct {
		Stats entities.Stats `json:"stats"`
	}
	status = api.do(t, http.MethodDelete, "/api/sessions/"+view.ID, nil, &finished)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, finished.Stats.Correct)

	status = api.do(t, http.MethodGet, "/api/sessions/"+view.ID, nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)

	history, err := api.results.ListByUser(context.Background(), view.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStaleGenerationRejected(t *testing.T) {
	api := newTestAPI(t)
	view := api.start(t, "Science")

	var shuffled entities.SessionView
	status := api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/shuffle-answers", nil, &shuffled)
	require.Equal(t, http.StatusOK, status)
	assert.Greater(t, shuffled.Generation, view.Generation)

	var errBody errorResponse
	status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer",
		answerRequest{Index: intPtr(2), Generation: &view.Generation}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, service.ErrStaleQuestion.Error(), errBody.Error)
}

func TestStartSessionErrors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "empty body", body: startRequest{}, status: http.StatusBadRequest},
		{name: "blank query", body: startRequest{Query: "   "}, status: http.StatusBadRequest},
		{name: "not json", body: "nope", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBody errorResponse
			assert.Equal(t, tt.status, api.do(t, http.MethodPost, "/api/sessions", tt.body, &errBody))
			assert.NotEmpty(t, errBody.Error)
		})
	}
}

func TestCategoryWithoutQuestions(t *testing.T) {
	api := newTestAPI(t)

	view := api.start(t, "Art")
	assert.Nil(t, view.Question)
	assert.Equal(t, "Art", view.Category)
	assert.Equal(t, 0, view.Progress.Total)

	var errBody errorResponse
	status := api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer", map[string]int{"index": 0}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	var nav navResponse
	status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/next", nil, &nav)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, nav.Nav.Moved)
}

func TestStatsGroupedByUser(t *testing.T) {
	api := newTestAPI(t)

	for i := 0; i < 2; i++ {
		var view entities.SessionView
		status := api.doAs(t, "browser-7", http.MethodPost, "/api/sessions", startRequest{Category: "Math"}, &view)
		require.Equal(t, http.StatusCreated, status)

		status = api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer", map[string]int{"index": 1}, nil)
		require.Equal(t, http.StatusOK, status)
		status = api.do(t, http.MethodDelete, "/api/sessions/"+view.ID, nil, nil)
		require.Equal(t, http.StatusOK, status)
	}

	var summary service.Summary
	status := api.doAs(t, "browser-7", http.MethodGet, "/api/stats", nil, &summary)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, summary.Sessions)
	assert.Equal(t, 2, summary.Correct)
	assert.Equal(t, 100, summary.Accuracy)

	status = api.doAs(t, "someone-else", http.MethodGet, "/api/stats", nil, &summary)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, summary.Sessions)

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/stats", nil, &errBody))
}

func TestSearchSession(t *testing.T) {
	api := newTestAPI(t)

	var view entities.SessionView
	status := api.do(t, http.MethodPost, "/api/sessions", startRequest{Query: "what is"}, &view)

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, service.SearchCategory("what is"), view.Category)
	assert.Equal(t, 3, view.Progress.Total)
}

func TestAnswerValidation(t *testing.T) {
	api := newTestAPI(t)
	view := api.start(t, "Math")

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest,
		api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer", map[string]int{"index": 4}, &errBody))
	assert.Equal(t, http.StatusBadRequest,
		api.do(t, http.MethodPost, "/api/sessions/"+view.ID+"/answer", map[string]string{}, &errBody))
	assert.Equal(t, http.StatusNotFound,
		api.do(t, http.MethodPost, "/api/sessions/missing/answer", map[string]int{"index": 0}, &errBody))
}

func TestReload(t *testing.T) {
	api := newTestAPI(t)

	var body reloadResponse
	status := api.do(t, http.MethodPost, "/api/reload", nil, &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, body.Questions)
	assert.False(t, body.FromSample)
}

func intPtr(v int) *int { return &v }
