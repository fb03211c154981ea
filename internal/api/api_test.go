package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vytor/vocabflash/internal/auth"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/services"
	"github.com/vytor/vocabflash/internal/testutil"
	"github.com/vytor/vocabflash/internal/testutil/mocks"
	"github.com/vytor/vocabflash/internal/worker"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testEnv struct {
	t       *testing.T
	db      *db.DB
	handler http.Handler
}

func newTestEnv(t *testing.T, opts ...func(*Server)) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	words := sqlite.NewWordRepository(database.DB)
	users := sqlite.NewUserRepository(database.DB)
	progress := sqlite.NewProgressRepository(database.DB)
	wordService := services.NewWordService(words)

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	srv := &Server{
		WordService:     wordService,
		ProgressService: services.NewProgressService(progress, words),
		AuthService:     services.NewAuthService(users, auth.NewTokenIssuer("test-secret", time.Hour)),
		JobQueue:        jobs.NewWorkerQueue(pool, wordService, jobs.NewTracker(10)),
		DB:              database,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return &testEnv{t: t, db: database, handler: srv.Routes()}
}

func (e *testEnv) do(method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return e.send(req, token)
}

func (e *testEnv) send(req *http.Request, token string) (*httptest.ResponseRecorder, apiResponse) {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Header().Get("Content-Type") == "application/json" && bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

// register creates an account and returns its token and id.
func (e *testEnv) register(email string) (string, int64) {
	e.t.Helper()
	rec, resp := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "name": "Test",
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeData[services.AuthResult](e.t, resp)
	return res.Token, res.User.ID
}

func (e *testEnv) registerAdmin(email string) string {
	e.t.Helper()
	token, id := e.register(email)
	_, err := e.db.Exec(`UPDATE users SET role = 'admin' WHERE id = ?`, id)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) createWord(token, word string, level models.Level) models.Word {
	e.t.Helper()
	rec, resp := e.do(http.MethodPost, "/api/words", token, models.Word{
		Word: word, Definition: "definition of " + word, Meaning: "meaning", Level: level,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[models.Word](e.t, resp)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = env.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.False(t, resp.Success)
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("ada@example.com")

	rec, resp := env.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeData[models.User](t, resp)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.Equal(t, models.RoleUser, me.Role)
	assert.Equal(t, 10, me.Settings.NewWordLimit)

	rec, resp = env.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	rec, _ = env.do(http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeData[services.AuthResult](t, resp).Token)

	rec, _ = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp = env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "ADA@example.com", "password": "secret1", "name": "Again"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)

	rec, _ = env.do(http.MethodPost, "/api/auth/register", "", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_LongPasswordIsValidationError(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": strings.Repeat("p", 80), "name": "Ada",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestUpdateSettings(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("ada@example.com")

	rec, resp := env.do(http.MethodPut, "/api/auth/settings", token, map[string]any{
		"daily_goal":    30,
		"target_levels": []string{"b1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decodeData[models.User](t, resp)
	assert.Equal(t, 30, user.Settings.DailyGoal)
	assert.Equal(t, []models.Level{models.LevelB1}, user.Settings.TargetLevels)

	rec, resp = env.do(http.MethodPut, "/api/auth/settings", token, map[string]any{"daily_goal": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestWordRoutes_AdminOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	userToken, _ := env.register("user@example.com")

	rec, resp := env.do(http.MethodPost, "/api/words", userToken, models.Word{Word: "x", Definition: "d", Meaning: "m", Level: "A1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, _ = env.do(http.MethodGet, "/api/words/export", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWordCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")

	apple := env.createWord(admin, "Apple", models.LevelA1)
	assert.Equal(t, "apple", apple.Word)
	env.createWord(admin, "negotiate", models.LevelB2)

	rec, resp := env.do(http.MethodPost, "/api/words", admin, models.Word{Word: "apple", Definition: "d", Meaning: "m", Level: "A1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)

	rec, resp = env.do(http.MethodGet, "/api/words?level=b2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[services.WordPage](t, resp)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "negotiate", page.Words[0].Word)

	rec, resp = env.do(http.MethodGet, "/api/words?search=APP", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeData[services.WordPage](t, resp).Total)

	rec, _ = env.do(http.MethodGet, "/api/words?level=Z9", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := "/api/words/" + itoa(apple.ID)
	rec, resp = env.do(http.MethodPut, path, admin, models.Word{Word: "apple", Definition: "a fruit", Meaning: "elma", Level: "A2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.LevelA2, decodeData[models.Word](t, resp).Level)

	rec, _ = env.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = env.do(http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	rec, _ = env.do(http.MethodGet, "/api/words/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")
	word := env.createWord(admin, "apple", models.LevelA1)
	token, _ := env.register("learner@example.com")

	rec, resp := env.do(http.MethodGet, "/api/progress/new?level=a1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decodeData[[]models.Word](t, resp)
	require.Len(t, fresh, 1)
	assert.Equal(t, word.ID, fresh[0].ID)

	rec, resp = env.do(http.MethodPost, "/api/progress/review", token, map[string]any{"word_id": word.ID, "quality": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	progress := decodeData[models.ProgressRecord](t, resp)
	assert.Equal(t, 1, progress.IntervalDays)
	assert.Equal(t, 1, progress.Repetitions)
	assert.Equal(t, models.StatusLearning, progress.Status)
	assert.InDelta(t, 2.6, progress.EaseFactor, 1e-9)

	rec, resp = env.do(http.MethodGet, "/api/progress/new", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[[]models.Word](t, resp), "reviewed words are no longer new")

	rec, resp = env.do(http.MethodGet, "/api/progress/due", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[[]models.ProgressWithWord](t, resp), "next review is tomorrow")

	rec, resp = env.do(http.MethodGet, "/api/progress/practice?level=all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	practice := decodeData[[]models.ProgressWithWord](t, resp)
	require.Len(t, practice, 1)
	assert.Equal(t, "apple", practice[0].Word.Word)

	rec, resp = env.do(http.MethodGet, "/api/progress/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[models.ProgressStats](t, resp)
	assert.Equal(t, 1, stats.TotalWords)
	assert.Equal(t, 1, stats.Learning)
	assert.Equal(t, 1, stats.UserStats.CurrentStreak)
	assert.Equal(t, 0, stats.UserStats.TotalWordsLearned)

	rec, _ = env.do(http.MethodPost, "/api/progress/reset", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, resp = env.do(http.MethodGet, "/api/progress/stats", token, nil)
	stats = decodeData[models.ProgressStats](t, resp)
	assert.Equal(t, 0, stats.TotalWords)
	assert.Equal(t, 0, stats.UserStats.CurrentStreak)
}

func TestReviewErrors(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")
	word := env.createWord(admin, "apple", models.LevelA1)
	token, _ := env.register("learner@example.com")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{name: "quality too high", body: map[string]any{"word_id": word.ID, "quality": 6}, status: http.StatusBadRequest, code: "INVALID_QUALITY"},
		{name: "negative quality", body: map[string]any{"word_id": word.ID, "quality": -1}, status: http.StatusBadRequest, code: "INVALID_QUALITY"},
		{name: "missing quality", body: map[string]any{"word_id": word.ID}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "missing word id", body: map[string]any{"quality": 3}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "unknown word", body: map[string]any{"word_id": 999, "quality": 3}, status: http.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(http.MethodPost, "/api/progress/review", token, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	_, resp := env.do(http.MethodGet, "/api/progress/stats", token, nil)
	assert.Equal(t, 0, decodeData[models.ProgressStats](t, resp).TotalWords, "rejected reviews leave no state")
}

func TestNewWords_DefaultsToUserLimit(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")
	for _, w := range []string{"one", "two", "three"} {
		env.createWord(admin, w, models.LevelA1)
	}
	token, _ := env.register("learner@example.com")
	rec, _ := env.do(http.MethodPut, "/api/auth/settings", token, map[string]any{"new_word_limit": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := env.do(http.MethodGet, "/api/progress/new?level=A1,A2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]models.Word](t, resp), 2)

	rec, resp = env.do(http.MethodGet, "/api/progress/new?limit=3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]models.Word](t, resp), 3)

	rec, _ = env.do(http.MethodGet, "/api/progress/new?level=A1,X2", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkImportAndExport(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")

	body := `[
		{"word":"cat","definition":"an animal","meaning":"kedi","level":"A1","example_sentences":["The cat sleeps."]},
		{"word":"cat","definition":"again","meaning":"kedi","level":"A1"},
		{"word":"","definition":"d","meaning":"m","level":"A1"}
	]`
	rec, resp := env.do(http.MethodPost, "/api/words/bulk-import", admin, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeData[models.ImportResult](t, resp)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)

	rec, _ = env.do(http.MethodGet, "/api/words/export?format=json", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".json")
	var exported []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "cat", exported[0]["word"])

	rec, _ = env.do(http.MethodGet, "/api/words/export?format=xlsx", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cat", rows[1][0])

	rec, _ = env.do(http.MethodGet, "/api/words/export?format=csv", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/words/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImportJob(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")

	req := uploadRequest(t, "words.json", `[{"word":"dog","definition":"an animal","meaning":"köpek","level":"A1"}]`)
	rec, resp := env.send(req, admin)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	job := decodeData[jobs.JobStatus](t, resp)
	require.NotEmpty(t, job.ID)

	status := func() jobs.State {
		_, resp := env.do(http.MethodGet, "/api/words/import/"+job.ID, admin, nil)
		var s jobs.JobStatus
		if json.Unmarshal(resp.Data, &s) != nil {
			return ""
		}
		return s.State
	}
	assert.Eventually(t, func() bool { return status() == jobs.StateDone }, 5*time.Second, 20*time.Millisecond)

	_, resp = env.do(http.MethodGet, "/api/words?search=dog", admin, nil)
	assert.Equal(t, 1, decodeData[services.WordPage](t, resp).Total)

	rec, _ = env.do(http.MethodGet, "/api/words/import/unknown", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadImport_RejectsUnknownExtension(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin("admin@example.com")

	rec, resp := env.send(uploadRequest(t, "words.csv", "word,definition"), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestUploadImport_QueueBusy(t *testing.T) {
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueWordImport", mock.Anything, mock.Anything, importer.FormatXLSX, mock.Anything).
		Return("", fmt.Errorf("enqueue word import: %w", worker.ErrQueueFull))
	env := newTestEnv(t, func(s *Server) { s.JobQueue = queue })
	admin := env.registerAdmin("admin@example.com")

	rec, resp := env.send(uploadRequest(t, "words.xlsx", "not really a workbook"), admin)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "RATE_LIMITED", resp.Error.Code)
	queue.AssertExpectations(t)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(s *Server) {
		s.RateLimitRequests = 2
		s.RateLimitWindow = time.Hour
	})

	for i := 0; i < 2; i++ {
		rec, _ := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.co", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec, resp := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.co", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", resp.Error.Code)

	rec, _ = env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health checks are not limited")
}

func loginFrom(t *testing.T, forwardedFor string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"a@b.co","password":"secret1"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	return req
}

func TestRateLimit_IgnoresForwardedHeaders(t *testing.T) {
	env := newTestEnv(t, func(s *Server) {
		s.RateLimitRequests = 2
		s.RateLimitWindow = time.Hour
	})

	limited := 0
	for i := 0; i < 10; i++ {
		rec, _ := env.send(loginFrom(t, "10.9.9."+strconv.Itoa(i)), "")
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 8, limited, "rotating forwarded addresses share the socket address bucket")
}

func TestRateLimit_TrustProxyKeysOnForwardedFor(t *testing.T) {
	env := newTestEnv(t, func(s *Server) {
		s.RateLimitRequests = 2
		s.RateLimitWindow = time.Hour
		s.TrustProxy = true
	})

	for i := 0; i < 3; i++ {
		rec, _ := env.send(loginFrom(t, "10.9.9."+strconv.Itoa(i)), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	for i := 0; i < 2; i++ {
		env.send(loginFrom(t, "10.9.9.100"), "")
	}
	rec, _ := env.send(loginFrom(t, "10.9.9.100"), "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestIPRateLimiter_PrunesIdleVisitors(t *testing.T) {
	rl := newIPRateLimiter(1, time.Minute)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	clock = clock.Add(2 * time.Minute)
	assert.True(t, rl.allow("10.0.0.2"))
	assert.Len(t, rl.limiters, 1)
	assert.True(t, rl.allow("10.0.0.1"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
