package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phototrack/attendance-backend-go/internal/config"
	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
	"github.com/phototrack/attendance-backend-go/internal/domain/auth"
	"github.com/phototrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/phototrack/attendance-backend-go/internal/pkg/storage"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// fakeAttendanceService returns canned values so handler tests only exercise
// transport concerns.
type fakeAttendanceService struct {
	recordErr    error
	lastFilter   attendance.HistoryFilter
	statsCalls   int
	verification attendance.Verification
}

func (f *fakeAttendanceService) Record(ctx context.Context, req attendance.RecordRequest) (attendance.RecordView, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordView{}, err
	}
	if f.recordErr != nil {
		return attendance.RecordView{}, f.recordErr
	}
	return attendance.RecordView{
		ID:    "rec-1",
		Name:  req.Name,
		Email: req.Email,
		Kind:  req.Kind,
	}, nil
}

func (f *fakeAttendanceService) History(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.RecordView, error) {
	f.lastFilter = filter
	return []attendance.RecordView{}, nil
}

func (f *fakeAttendanceService) Sessions(ctx context.Context, email string) ([]attendance.SessionView, error) {
	return []attendance.SessionView{}, nil
}

func (f *fakeAttendanceService) Stats(ctx context.Context) (attendance.Statistics, error) {
	f.statsCalls++
	return attendance.Statistics{TotalEntries: 3, TotalExits: 2, DistinctSubjects: 2, AverageDurationSeconds: 3600}, nil
}

func (f *fakeAttendanceService) VerifyIdentity(ctx context.Context, email, image string) (attendance.Verification, error) {
	return f.verification, nil
}

type fakeAuthService struct{}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if req.Username != "admin" || req.Password != "admin123" {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	return auth.LoginResponse{Token: "tok", ExpiresAt: 1, User: auth.UserInfo{Username: "admin", Role: "admin"}}, nil
}

func (f *fakeAuthService) Verify(ctx context.Context, token string) (auth.UserInfo, error) {
	return auth.UserInfo{Username: "admin", Role: "admin"}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error { return nil }

func (f *fakeAuthService) EnsureDefaultAdmin(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T, svc *fakeAttendanceService) (*httptest.Server, jwt.Service) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.CORS.AllowedOrigin = "http://localhost:3000"

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h", jwt.NewMemoryBlacklist())

	fileStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	router := NewRouter(
		cfg,
		jwtService,
		NewAuthHandler(&fakeAuthService{}),
		NewAttendanceHandler(svc),
		NewUploadHandler(fileStorage),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, jwtService
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func TestRecordEndpoint(t *testing.T) {
	server, _ := newTestRouter(t, &fakeAttendanceService{})

	resp := postJSON(t, server.URL+"/api/attendance", attendance.RecordRequest{
		Name:  "John",
		Email: "john@x.com",
		Image: "data:image/png;base64,xxxx",
		Kind:  attendance.KindEntry,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "ENTRY recorded successfully", body.Message)
}

func TestRecordEndpoint_ValidationFailure(t *testing.T) {
	server, _ := newTestRouter(t, &fakeAttendanceService{})

	resp := postJSON(t, server.URL+"/api/attendance", attendance.RecordRequest{Kind: "LUNCH"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRecordEndpoint_GateRejection(t *testing.T) {
	svc := &fakeAttendanceService{recordErr: &attendance.VerificationFailedError{Similarity: 0.31}}
	server, _ := newTestRouter(t, svc)

	resp := postJSON(t, server.URL+"/api/attendance", attendance.RecordRequest{
		Name:  "Mallory",
		Email: "john@x.com",
		Image: "data:image/png;base64,xxxx",
		Kind:  attendance.KindExit,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error.Message, "31%")
}

func TestHistoryEndpoint_QueryParams(t *testing.T) {
	svc := &fakeAttendanceService{}
	server, _ := newTestRouter(t, svc)

	resp, err := http.Get(server.URL + "/api/attendance/history?email=john@x.com&type=ENTRY")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastFilter.Email)
	assert.Equal(t, "john@x.com", *svc.lastFilter.Email)
	require.NotNil(t, svc.lastFilter.Kind)
	assert.Equal(t, attendance.KindEntry, *svc.lastFilter.Kind)
	assert.Nil(t, svc.lastFilter.StartDate)
}

func TestStatsEndpoint_RequiresAuth(t *testing.T) {
	server, _ := newTestRouter(t, &fakeAttendanceService{})

	resp, err := http.Get(server.URL + "/api/attendance/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatsEndpoint_RequiresAdminRole(t *testing.T) {
	server, jwtService := newTestRouter(t, &fakeAttendanceService{})

	token, _, err := jwtService.GenerateAccessToken("viewer", "viewer@x.com", "viewer")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/attendance/stats", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStatsEndpoint_AdminAndCache(t *testing.T) {
	svc := &fakeAttendanceService{}
	server, jwtService := newTestRouter(t, svc)

	token, _, err := jwtService.GenerateAccessToken("admin", "admin@attendance.com", "admin")
	require.NoError(t, err)

	get := func() *http.Response {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/attendance/stats", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	first := get()
	defer first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := get()
	defer second.Body.Close()
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))

	// The service only ran once, the second response came from the cache.
	assert.Equal(t, 1, svc.statsCalls)
}

func TestUploadsEndpoint_UnknownFile(t *testing.T) {
	server, _ := newTestRouter(t, &fakeAttendanceService{})

	resp, err := http.Get(server.URL + "/api/uploads/nope.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestRouter(t, &fakeAttendanceService{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
