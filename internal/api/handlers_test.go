package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/subtrackr/subscription-api/internal/app"
	"github.com/subtrackr/subscription-api/internal/domain"
	"github.com/subtrackr/subscription-api/internal/store"
	"github.com/subtrackr/subscription-api/pkg/workflow"
)

const (
	testSecret = "test-secret"
	testUserID = "4f5a6f64-9c1d-4f7e-8a2b-0c3d4e5f6a7b"
	testSubID  = "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"
)

type repoStub struct {
	stored *domain.Subscription
}

func (s *repoStub) Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	out := *sub
	out.ID = testSubID
	s.stored = &out
	return &out, nil
}

func (s *repoStub) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *repoStub) FindByOwner(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return []domain.Subscription{}, nil
}

func (s *repoStub) List(ctx context.Context, page, limit int) ([]domain.Subscription, store.Pagination, error) {
	return []domain.Subscription{}, store.NewPagination(0, page, limit), nil
}

func (s *repoStub) Update(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	return sub, nil
}

func (s *repoStub) Delete(ctx context.Context, id string) (*domain.Subscription, error) {
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *repoStub) FindUpcoming(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	return []domain.Subscription{}, nil
}

type userRepoStub struct{}

func (userRepoStub) Create(ctx context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (userRepoStub) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (userRepoStub) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (userRepoStub) FindAll(ctx context.Context) ([]domain.User, error) { return nil, nil }
func (userRepoStub) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

type dispatcherStub struct{}

func (dispatcherStub) Trigger(ctx context.Context, trigger workflow.TriggerRequest) (*workflow.TriggerRun, error) {
	return &workflow.TriggerRun{WorkflowRunID: "wfr_test"}, nil
}

type reminderStub struct {
	processed string
	err       error
}

func (r *reminderStub) ProcessReminders(ctx context.Context, subscriptionID string) error {
	r.processed = subscriptionID
	return r.err
}

func newTestRouter(repo *repoStub, reminders ReminderProcessor) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	subService := app.NewSubscriptionService(repo, dispatcherStub{}, nil, "http://localhost/api/v1/workflows/reminders", logger)
	authService := app.NewAuthService(userRepoStub{}, testSecret, time.Hour)
	userService := app.NewUserService(userRepoStub{})

	return NewRouter(Handlers{
		Subscriptions: NewSubscriptionHandler(subService),
		Auth:          NewAuthHandler(authService),
		Users:         NewUserHandler(userService),
		Workflows:     NewWorkflowHandler(reminders),
	}, []byte(testSecret))
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := app.GenerateToken(testUserID, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + token
}

func TestCreateSubscription_RequiresAuth(t *testing.T) {
	router := newTestRouter(&repoStub{}, &reminderStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateSubscription_ReturnsRecordAndRunID(t *testing.T) {
	repo := &repoStub{}
	router := newTestRouter(repo, &reminderStub{})

	body := `{
        "name": "Netflix Premium",
        "price": 15.99,
        "currency": "USD",
        "frequency": "monthly",
        "category": "entertainment",
        "paymentMethod": "Card",
        "startDate": "2024-01-01"
    }`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			WorkflowRunID string `json:"workflowRunId"`
			Subscription  struct {
				UserID      string `json:"userId"`
				RenewalDate string `json:"renewalDate"`
				Status      string `json:"status"`
			} `json:"subscription"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success || resp.Data.WorkflowRunID != "wfr_test" {
		t.Errorf("expected a workflow run id, got %+v", resp.Data)
	}
	if resp.Data.Subscription.UserID != testUserID {
		t.Errorf("owner must come from the token, got %q", resp.Data.Subscription.UserID)
	}
	if !strings.HasPrefix(resp.Data.Subscription.RenewalDate, "2024-01-31") {
		t.Errorf("renewal date must be derived from the 30-day table, got %q", resp.Data.Subscription.RenewalDate)
	}
}

func TestCreateSubscription_BadEnumIs400(t *testing.T) {
	router := newTestRouter(&repoStub{}, &reminderStub{})

	body := `{
        "name": "Netflix Premium",
        "price": 15.99,
        "currency": "JPY",
        "frequency": "monthly",
        "category": "entertainment",
        "paymentMethod": "Card",
        "startDate": "2024-01-01"
    }`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListSubscriptions_IsPublic(t *testing.T) {
	router := newTestRouter(&repoStub{}, &reminderStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions?page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", rec.Code)
	}
}

func TestWorkflowCallback_ProcessesSubscription(t *testing.T) {
	reminders := &reminderStub{}
	router := newTestRouter(&repoStub{}, reminders)

	body := `{"subscriptionId": "` + testSubID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/reminders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if reminders.processed != testSubID {
		t.Errorf("callback must hand the subscription id to the reminder service, got %q", reminders.processed)
	}
}

func TestWorkflowCallback_UnknownSubscriptionIs404(t *testing.T) {
	reminders := &reminderStub{err: domain.ErrNotFound}
	router := newTestRouter(&repoStub{}, reminders)

	body := `{"subscriptionId": "` + testSubID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/reminders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	router := newTestRouter(&repoStub{}, &reminderStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header, got %d", rec.Code)
	}
}
