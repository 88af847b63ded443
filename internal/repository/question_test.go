package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const mixedCSV = header +
	"Math,What is 2+2?,3,4,5,6,2,,Basic addition\n" +
	"Science,What is H2O?,Oxygen,Hydrogen,Water,Helium,3\n" +
	"Math,What is 3x7?,18,21,24,28,2\n" +
	"History,First US president?,Jefferson,Adams,Washington,Lincoln,3,,Served 1789-1797\n"

type mapFetcher struct {
	files map[string]string
	calls atomic.Int32
}

func (f *mapFetcher) Fetch(_ context.Context, name string) (string, error) {
	f.calls.Add(1)
	text, ok := f.files[name]
	if !ok {
		return "", os.ErrNotExist
	}
	return text, nil
}

func newTestRepository(f Fetcher, opts SourceOptions) *QuestionRepository {
	if opts.Source == "" {
		opts.Source = "questions.csv"
	}
	return NewQuestionRepository(f, newTestParser(ParserOptions{}), zap.NewNop(), opts)
}

func TestLoadFromSource(t *testing.T) {
	repo := newTestRepository(&mapFetcher{files: map[string]string{"questions.csv": mixedCSV}}, SourceOptions{})

	res := repo.Load(context.Background())

	assert.NoError(t, res.Err)
	assert.False(t, res.FromSample)
	assert.Equal(t, 4, res.Questions)
	assert.Len(t, repo.All(), 4)
}

func TestLoadFallsBackToSample(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "missing file", files: map[string]string{}},
		{name: "no valid rows", files: map[string]string{"questions.csv": header + "Math,Broken,a\n"}},
		{name: "header only", files: map[string]string{"questions.csv": header}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(&mapFetcher{files: tt.files}, SourceOptions{})

			res := repo.Load(context.Background())

			assert.Error(t, res.Err)
			assert.True(t, res.FromSample)
			assert.Equal(t, len(SampleQuestions()), res.Questions)
			assert.Len(t, repo.All(), len(SampleQuestions()))
		})
	}
}

func TestLoadReportsRejectedRows(t *testing.T) {
	text := mixedCSV +
		"Math,Bad key,a,b,c,d,9\n" +
		"Math,Truncated,a,b\n"

	t.Run("default keeps bad key as option A", func(t *testing.T) {
		repo := newTestRepository(&mapFetcher{files: map[string]string{"questions.csv": text}}, SourceOptions{})

		res := repo.Load(context.Background())

		assert.False(t, res.FromSample)
		assert.Equal(t, 5, res.Questions)
		require.Len(t, res.Rejected, 1)
		assert.ErrorIs(t, res.Rejected[0], ErrTooFewColumns)
	})

	t.Run("strict drops bad key", func(t *testing.T) {
		repo := NewQuestionRepository(
			&mapFetcher{files: map[string]string{"questions.csv": text}},
			newTestParser(ParserOptions{StrictCorrect: true}),
			zap.NewNop(),
			SourceOptions{Source: "questions.csv"},
		)

		res := repo.Load(context.Background())

		assert.Equal(t, 4, res.Questions)
		require.Len(t, res.Rejected, 2)
		assert.ErrorIs(t, res.Rejected[0], ErrInvalidCorrect)
		assert.ErrorIs(t, res.Rejected[1], ErrTooFewColumns)
	})
}

func TestLoadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quiz/questions.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(mixedCSV))
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		f, err := NewHTTPFetcher(srv.URL+"/quiz", srv.Client())
		require.NoError(t, err)

		res := newTestRepository(f, SourceOptions{}).Load(context.Background())

		assert.NoError(t, res.Err)
		assert.Equal(t, 4, res.Questions)
	})

	t.Run("404 uses sample", func(t *testing.T) {
		f, err := NewHTTPFetcher(srv.URL+"/elsewhere", srv.Client())
		require.NoError(t, err)

		res := newTestRepository(f, SourceOptions{}).Load(context.Background())

		assert.ErrorIs(t, res.Err, ErrUnexpectedStatus)
		assert.True(t, res.FromSample)
	})
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "categories"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories", "math.csv"), []byte(mixedCSV), 0o600))

	f := NewFileFetcher(dir)

	text, err := f.Fetch(context.Background(), "categories/math.csv")
	require.NoError(t, err)
	assert.Equal(t, mixedCSV, text)

	_, err = f.Fetch(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	f := fetcherFunc(func(ctx context.Context, name string) (string, error) {
		calls.Add(1)
		<-release
		return mixedCSV, nil
	})
	repo := newTestRepository(f, SourceOptions{})

	var wg sync.WaitGroup
	results := make([]LoadResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.Load(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(len(results)))
	for _, res := range results {
		assert.Equal(t, 4, res.Questions)
	}
}

func TestCategoriesInFirstAppearanceOrder(t *testing.T) {
	repo := newTestRepository(&mapFetcher{files: map[string]string{"questions.csv": mixedCSV}}, SourceOptions{})
	repo.Load(context.Background())

	cats := repo.Categories()

	require.Len(t, cats, 3)
	assert.Equal(t, "Math", cats[0].Name)
	assert.Equal(t, 2, cats[0].Count)
	assert.Equal(t, "Science", cats[1].Name)
	assert.Equal(t, "History", cats[2].Name)
}

func TestByCategoryReturnsCopies(t *testing.T) {
	repo := newTestRepository(&mapFetcher{files: map[string]string{"questions.csv": mixedCSV}}, SourceOptions{})
	repo.Load(context.Background())

	math := repo.ByCategory("Math")
	require.Len(t, math, 2)
	assert.Equal(t, "What is 2+2?", math[0].Text)

	math[0].ApplyPermutation([]int{3, 2, 1, 0})
	assert.Equal(t, []string{"3", "4", "5", "6"}, repo.ByCategory("Math")[0].CurrentOptions)

	assert.Empty(t, repo.ByCategory("Art"))
}

func TestSearch(t *testing.T) {
	repo := newTestRepository(&mapFetcher{files: map[string]string{"questions.csv": mixedCSV}}, SourceOptions{})
	repo.Load(context.Background())

	assert.Len(t, repo.Search("WHAT IS"), 3)
	assert.Len(t, repo.Search("washington"), 1)
	assert.Len(t, repo.Search("1789"), 1)
	assert.Empty(t, repo.Search("   "))
	assert.Empty(t, repo.Search("geography"))
}

func TestLoadCategory(t *testing.T) {
	mathOnly := header + "Math,From category file,1,2,3,4,1\n"
	f := &mapFetcher{files: map[string]string{
		"questions.csv":          mixedCSV,
		"categories/math.csv":    mathOnly,
		"categories/history.csv": header,
	}}

	t.Run("per category file", func(t *testing.T) {
		repo := newTestRepository(f, SourceOptions{PerCategory: true, CategoriesDir: "categories"})
		repo.Load(context.Background())

		qs := repo.LoadCategory(context.Background(), "Math")
		require.Len(t, qs, 1)
		assert.Equal(t, "From category file", qs[0].Text)
	})

	t.Run("falls back to main set", func(t *testing.T) {
		repo := newTestRepository(f, SourceOptions{PerCategory: true, CategoriesDir: "categories"})
		repo.Load(context.Background())

		assert.Len(t, repo.LoadCategory(context.Background(), "Science"), 1)
		assert.Len(t, repo.LoadCategory(context.Background(), "History"), 1)
	})

	t.Run("disabled", func(t *testing.T) {
		repo := newTestRepository(f, SourceOptions{})
		repo.Load(context.Background())

		assert.Len(t, repo.LoadCategory(context.Background(), "Math"), 2)
	})
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "math", Slug("Math"))
	assert.Equal(t, "world-history", Slug(" World History "))
	assert.Equal(t, "cc", Slug("C/C++"))
}

type fetcherFunc func(ctx context.Context, name string) (string, error)

func (f fetcherFunc) Fetch(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}
