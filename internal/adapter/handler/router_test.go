package handler_test

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/adapter/handler"
	"github.com/johnquangdev/coreagenda/internal/adapter/repository/memory"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	httpmw "github.com/johnquangdev/coreagenda/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/coreagenda/internal/usecase/attendance"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
	"github.com/johnquangdev/coreagenda/internal/usecase/outreach"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
	"github.com/johnquangdev/coreagenda/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/coreagenda/pkg/validator"
)

type testServer struct {
	e      *echo.Echo
	repos  repositories.Registry
	tokens *jwt.Manager
}

func newTestServer(t *testing.T, checks map[string]handler.HealthCheck) *testServer {
	t.Helper()

	repos := memory.NewStore().Repositories()
	authorizer := authz.NewRoleAuthorizer(authz.DefaultGrants())
	logger := zap.NewNop()

	engine := workflow.NewEngine(workflow.Dependencies{
		Meetings:    repos.Meetings,
		AgendaItems: repos.AgendaItems,
		ActionItems: repos.ActionItems,
		Minutes:     repos.Minutes,
		Transitions: repos.Transitions,
		Authorizer:  authorizer,
		Logger:      logger,
	})
	attendanceService := attendance.NewService(repos.Meetings, repos.Users, repos.Attendance, 0, logger)
	outreachService := outreach.NewService(outreach.Dependencies{
		Meetings:    repos.Meetings,
		AgendaItems: repos.AgendaItems,
		Presenters:  repos.Presenters,
		Requests:    repos.ExternalRequests,
		Users:       repos.Users,
		Authorizer:  authorizer,
		Invalidator: engine,
		Logger:      logger,
	})

	tokens := jwt.NewManager("test-secret", "coreagenda", time.Hour)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	handler.NewRouter(nil, httpmw.EchoAuth(tokens), authorizer, handler.Handlers{
		Meeting:    handler.NewMeetingHandler(engine, logger),
		Action:     handler.NewActionHandler(engine, logger, nil),
		Minute:     handler.NewMinuteHandler(engine, logger),
		Attendance: handler.NewAttendanceHandler(attendanceService, authorizer, logger, nil),
		Outreach:   handler.NewOutreachHandler(outreachService, logger),
		User:       handler.NewUserHandler(repos.Users, authorizer, logger),
	}, checks).Setup(e)

	return &testServer{e: e, repos: repos, tokens: tokens}
}

// login creates a user with role and returns a bearer token for them
func (s *testServer) login(t *testing.T, role entities.UserRole) string {
	t.Helper()
	u := entities.NewUser(string(role)+"-"+uuid.NewString()[:8]+"@example.org", string(role), role)
	if err := s.repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := s.tokens.Issue(jwt.Identity{UserID: u.ID, Email: u.Email, Role: string(u.Role)})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

type envelope struct {
	Code    interface{}       `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil || v.ID == "" {
		t.Fatalf("no id in %s", env.Data)
	}
	return v.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, map[string]handler.HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	down := newTestServer(t, map[string]handler.HealthCheck{
		"redis": func(context.Context) error { return stdErrors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	down.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded status = %d", rec.Code)
	}
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)

	if code, _ := s.do(t, http.MethodGet, "/v1/meetings", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/v1/meetings", "not-a-jwt", ""); code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", code)
	}
}

func TestMeHandler(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, entities.RoleSecretary)

	code, env := s.do(t, http.MethodGet, "/v1/me", token, "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var me struct {
		Capabilities []string `json:"capabilities"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(me.Capabilities, ",") != "organize_agenda,manage_meetings" {
		t.Fatalf("capabilities = %v", me.Capabilities)
	}
}

func TestAgendaWorkflowOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)
	member := s.login(t, entities.RoleMember)

	code, env := s.do(t, http.MethodPost, "/v1/meetings", member, `{"title":"Council"}`)
	if code != http.StatusForbidden || env.Code != "PERMISSION_DENIED" {
		t.Fatalf("member create: %d %v", code, env.Code)
	}

	code, env = s.do(t, http.MethodPost, "/v1/meetings", chair, `{"title":""}`)
	if code != http.StatusBadRequest {
		t.Fatalf("empty title: %d", code)
	}

	code, env = s.do(t, http.MethodPost, "/v1/meetings", chair, `{"title":"Council"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %s", code, env.Message)
	}
	meetingID := dataID(t, env)

	code, env = s.do(t, http.MethodPost, "/v1/meetings/"+meetingID+"/agenda-items", member, `{"title":"Bike lanes","duration_minutes":15}`)
	if code != http.StatusCreated {
		t.Fatalf("propose: %d %s", code, env.Message)
	}
	itemID := dataID(t, env)

	code, env = s.do(t, http.MethodPost, "/v1/agenda-items/"+itemID+"/approve", chair, "")
	if code != http.StatusConflict || env.Code != "INVALID_TRANSITION" {
		t.Fatalf("approve draft: %d %v", code, env.Code)
	}
	if env.Details["from"] != "draft" || env.Details["to"] != "approved" {
		t.Fatalf("transition details = %v", env.Details)
	}

	if code, _ = s.do(t, http.MethodPost, "/v1/agenda-items/"+itemID+"/submit", member, ""); code != http.StatusOK {
		t.Fatalf("submit: %d", code)
	}
	if code, _ = s.do(t, http.MethodPost, "/v1/agenda-items/"+itemID+"/approve", member, ""); code != http.StatusForbidden {
		t.Fatalf("member approve: %d", code)
	}
	if code, _ = s.do(t, http.MethodPost, "/v1/agenda-items/"+itemID+"/approve", chair, ""); code != http.StatusOK {
		t.Fatalf("chair approve: %d", code)
	}

	code, env = s.do(t, http.MethodGet, "/v1/agenda-items/"+itemID+"/history", member, "")
	if code != http.StatusOK {
		t.Fatalf("history: %d", code)
	}
	var trail []map[string]interface{}
	if err := json.Unmarshal(env.Data, &trail); err != nil || len(trail) != 2 {
		t.Fatalf("history = %s", env.Data)
	}
}

func TestNotFoundAndBadIDs(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)

	code, env := s.do(t, http.MethodGet, "/v1/meetings/"+uuid.NewString(), chair, "")
	if code != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("unknown meeting: %d %v", code, env.Code)
	}
	code, env = s.do(t, http.MethodPost, "/v1/agenda-items/not-a-uuid/submit", chair, "")
	if code != http.StatusBadRequest || env.Details["field"] != "id" {
		t.Fatalf("bad id: %d %v", code, env.Details)
	}
}

func TestExternalRequestsOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)
	secretary := s.login(t, entities.RoleSecretary)

	_, env := s.do(t, http.MethodPost, "/v1/meetings", chair, `{"title":"Town hall"}`)
	meetingID := dataID(t, env)
	requestsPath := "/v1/meetings/" + meetingID + "/external-requests"

	// Outside parties submit without a token
	code, env := s.do(t, http.MethodPost, requestsPath, "",
		`{"requester_name":"Rosa","requester_email":"Rosa@Example.org","topic":"Crosswalk on 5th"}`)
	if code != http.StatusCreated {
		t.Fatalf("submit: %d %s", code, env.Message)
	}
	requestID := dataID(t, env)

	code, _ = s.do(t, http.MethodPost, requestsPath, "", `{"requester_name":"Rosa","requester_email":"nope","topic":"x"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("bad email: %d", code)
	}

	if code, _ = s.do(t, http.MethodGet, requestsPath, "", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: %d", code)
	}
	if code, _ = s.do(t, http.MethodGet, requestsPath, secretary, ""); code != http.StatusForbidden {
		t.Fatalf("secretary list: %d", code)
	}
	code, env = s.do(t, http.MethodGet, requestsPath+"?status=pending", chair, "")
	if code != http.StatusOK {
		t.Fatalf("chair list: %d", code)
	}
	var listed []map[string]interface{}
	if err := json.Unmarshal(env.Data, &listed); err != nil || len(listed) != 1 {
		t.Fatalf("listed = %s", env.Data)
	}

	code, env = s.do(t, http.MethodPost, "/v1/external-requests/"+requestID+"/approve", chair, "")
	if code != http.StatusOK {
		t.Fatalf("approve: %d %s", code, env.Message)
	}
	code, env = s.do(t, http.MethodPost, "/v1/external-requests/"+requestID+"/reject", chair, `{"note":"late"}`)
	if code != http.StatusConflict {
		t.Fatalf("reject approved: %d %v", code, env.Code)
	}

	code, env = s.do(t, http.MethodGet, "/v1/meetings/"+meetingID+"/presenters", secretary, "")
	if code != http.StatusOK {
		t.Fatalf("presenters: %d", code)
	}
	var presenters []map[string]interface{}
	if err := json.Unmarshal(env.Data, &presenters); err != nil || len(presenters) != 1 || presenters[0]["external"] != true {
		t.Fatalf("presenters = %s", env.Data)
	}
}

func TestDeleteMeetingOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)

	_, env := s.do(t, http.MethodPost, "/v1/meetings", chair, `{"title":"Retreat"}`)
	meetingID := dataID(t, env)
	for _, title := range []string{"Goals", "Budget"} {
		s.do(t, http.MethodPost, "/v1/meetings/"+meetingID+"/agenda-items", chair, `{"title":"`+title+`"}`)
	}

	code, env := s.do(t, http.MethodDelete, "/v1/meetings/"+meetingID, chair, "")
	if code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	var result struct {
		AgendaItems int64 `json:"agenda_items"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil || result.AgendaItems != 2 {
		t.Fatalf("cascade = %s", env.Data)
	}

	if code, _ = s.do(t, http.MethodGet, "/v1/meetings/"+meetingID, chair, ""); code != http.StatusNotFound {
		t.Fatalf("get deleted: %d", code)
	}
}

func TestArrivalTimeNeedsManageMeetings(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)
	member := s.login(t, entities.RoleMember)
	secretary := s.login(t, entities.RoleSecretary)

	start := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	_, env := s.do(t, http.MethodPost, "/v1/meetings", chair,
		`{"title":"Standup","scheduled_date":"`+start.Format(time.RFC3339)+`"}`)
	meetingID := dataID(t, env)
	if code, _ := s.do(t, http.MethodPost, "/v1/meetings/"+meetingID+"/schedule", chair, ""); code != http.StatusOK {
		t.Fatalf("schedule: %d", code)
	}
	arrive := "/v1/meetings/" + meetingID + "/attendance/arrive"
	onTime := `{"at":"` + start.Format(time.RFC3339) + `"}`

	code, env := s.do(t, http.MethodPost, arrive, member, onTime)
	if code != http.StatusForbidden || env.Code != "PERMISSION_DENIED" {
		t.Fatalf("member backdated arrival: %d %v", code, env.Code)
	}

	code, env = s.do(t, http.MethodPost, arrive, member, "")
	if code != http.StatusCreated {
		t.Fatalf("member arrival: %d %s", code, env.Message)
	}
	var record struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &record); err != nil || record.Status != "late" {
		t.Fatalf("member record = %s", env.Data)
	}

	code, env = s.do(t, http.MethodPost, arrive, secretary, onTime)
	if code != http.StatusCreated {
		t.Fatalf("secretary arrival: %d %s", code, env.Message)
	}
	if err := json.Unmarshal(env.Data, &record); err != nil || record.Status != "marked" {
		t.Fatalf("secretary record = %s", env.Data)
	}
}

func status(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("no status in %s", env.Data)
	}
	return v.Status
}

func TestClosingTransitionsOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)
	member := s.login(t, entities.RoleMember)
	other := s.login(t, entities.RoleMember)

	_, env := s.do(t, http.MethodPost, "/v1/meetings", chair, `{"title":"Council"}`)
	meetingID := dataID(t, env)
	items := "/v1/meetings/" + meetingID + "/agenda-items"

	_, env = s.do(t, http.MethodPost, items, member, `{"title":"Parking"}`)
	withdrawn := dataID(t, env)
	if code, _ := s.do(t, http.MethodPost, "/v1/agenda-items/"+withdrawn+"/withdraw", other, ""); code != http.StatusForbidden {
		t.Fatalf("withdraw by another member: %d", code)
	}
	code, env := s.do(t, http.MethodPost, "/v1/agenda-items/"+withdrawn+"/withdraw", member, "")
	if code != http.StatusOK || status(t, env) != "withdrawn" {
		t.Fatalf("withdraw by proposer: %d %s", code, env.Data)
	}

	_, env = s.do(t, http.MethodPost, items, member, `{"title":"Budget"}`)
	deferred := dataID(t, env)
	s.do(t, http.MethodPost, "/v1/agenda-items/"+deferred+"/submit", member, "")
	if code, _ = s.do(t, http.MethodPost, "/v1/agenda-items/"+deferred+"/defer", member, ""); code != http.StatusForbidden {
		t.Fatalf("member defer: %d", code)
	}
	code, env = s.do(t, http.MethodPost, "/v1/agenda-items/"+deferred+"/defer", chair, "")
	if code != http.StatusOK || status(t, env) != "deferred" {
		t.Fatalf("chair defer: %d %s", code, env.Data)
	}
	if code, _ = s.do(t, http.MethodPost, "/v1/agenda-items/"+deferred+"/approve", chair, ""); code != http.StatusConflict {
		t.Fatalf("approve deferred: %d", code)
	}

	_, env = s.do(t, http.MethodPost, items, member, `{"title":"Trees"}`)
	pending := dataID(t, env)

	code, env = s.do(t, http.MethodPost, "/v1/meetings/"+meetingID+"/cancel", chair, `{"reason":"no quorum"}`)
	if code != http.StatusOK || status(t, env) != "cancelled" {
		t.Fatalf("cancel: %d %s", code, env.Data)
	}
	code, env = s.do(t, http.MethodPost, "/v1/agenda-items/"+pending+"/submit", member, "")
	if code != http.StatusConflict || env.Code != "MEETING_CLOSED" {
		t.Fatalf("submit on cancelled meeting: %d %v", code, env.Code)
	}
	code, env = s.do(t, http.MethodPost, items, member, `{"title":"Late idea"}`)
	if code != http.StatusConflict || env.Code != "MEETING_CLOSED" {
		t.Fatalf("propose on cancelled meeting: %d %v", code, env.Code)
	}
	if code, _ = s.do(t, http.MethodPost, "/v1/meetings/"+meetingID+"/postpone", chair, ""); code != http.StatusConflict {
		t.Fatalf("postpone cancelled: %d", code)
	}

	code, env = s.do(t, http.MethodGet, "/v1/meetings/"+meetingID+"/history", chair, "")
	var trail []map[string]interface{}
	if code != http.StatusOK || json.Unmarshal(env.Data, &trail) != nil || len(trail) != 1 || trail[0]["to"] != "cancelled" {
		t.Fatalf("meeting history: %d %s", code, env.Data)
	}
}

func TestRejectActionItemOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)
	member := s.login(t, entities.RoleMember)

	assignee := uuid.NewString()
	due := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	code, env := s.do(t, http.MethodPost, "/v1/action-items", chair,
		`{"assignee_id":"`+assignee+`","title":"Draft letter","due_date":"`+due+`","priority":"low"}`)
	if code != http.StatusCreated {
		t.Fatalf("assign: %d %s", code, env.Message)
	}
	actionID := dataID(t, env)

	if code, _ = s.do(t, http.MethodPost, "/v1/action-items/"+actionID+"/reject", member, ""); code != http.StatusForbidden {
		t.Fatalf("member reject: %d", code)
	}
	code, env = s.do(t, http.MethodPost, "/v1/action-items/"+actionID+"/reject", chair, `{"reason":"duplicate"}`)
	if code != http.StatusOK || status(t, env) != "rejected" {
		t.Fatalf("reject: %d %s", code, env.Data)
	}
	if code, _ = s.do(t, http.MethodPost, "/v1/action-items/"+actionID+"/complete", chair, ""); code != http.StatusConflict {
		t.Fatalf("complete rejected: %d", code)
	}

	code, env = s.do(t, http.MethodGet, "/v1/action-items/overdue", chair, "")
	var overdue []map[string]interface{}
	if code != http.StatusOK || json.Unmarshal(env.Data, &overdue) != nil || len(overdue) != 0 {
		t.Fatalf("overdue after reject: %d %s", code, env.Data)
	}
}

func TestDeferAndWithdrawExternalRequest(t *testing.T) {
	s := newTestServer(t, nil)
	chair := s.login(t, entities.RoleChair)

	_, env := s.do(t, http.MethodPost, "/v1/meetings", chair, `{"title":"Town hall"}`)
	meetingID := dataID(t, env)
	_, env = s.do(t, http.MethodPost, "/v1/meetings/"+meetingID+"/external-requests", "",
		`{"requester_name":"Ana","requester_email":"ana@example.org","topic":"Library hours"}`)
	requestID := dataID(t, env)

	code, env := s.do(t, http.MethodPost, "/v1/external-requests/"+requestID+"/defer", chair, `{"note":"next quarter"}`)
	if code != http.StatusOK || status(t, env) != "deferred" {
		t.Fatalf("defer: %d %s", code, env.Data)
	}
	if code, _ = s.do(t, http.MethodPost, "/v1/external-requests/"+requestID+"/approve", chair, ""); code != http.StatusConflict {
		t.Fatalf("approve deferred: %d", code)
	}

	withdraw := "/v1/external-requests/" + requestID + "/withdraw"
	if code, _ = s.do(t, http.MethodPost, withdraw, "", `{"requester_email":"someone@example.org"}`); code != http.StatusForbidden {
		t.Fatalf("withdraw by stranger: %d", code)
	}
	code, env = s.do(t, http.MethodPost, withdraw, "", `{"requester_email":"ANA@example.org"}`)
	if code != http.StatusOK || status(t, env) != "withdrawn" {
		t.Fatalf("withdraw: %d %s", code, env.Data)
	}
	if code, _ = s.do(t, http.MethodPost, withdraw, "", `{"requester_email":"ana@example.org"}`); code != http.StatusConflict {
		t.Fatalf("withdraw twice: %d", code)
	}
}
