package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── Mock ExeatAPI ──

type actCall struct {
	ID      int64
	Action  workflow.Action
	Comment string
}

type mockExeatAPI struct {
	mu sync.Mutex

	login    *model.LoginResult
	loginErr error

	requests map[int64]*model.ExeatRequest
	nextID   int64
	lastList upstream.ExeatFilter
	created  []model.ExeatApplication

	// actFn overrides the default Act behaviour (apply the expected status).
	actFn    func(id int64, a workflow.Action) (*model.ExeatRequest, error)
	acts     []actCall
	getCalls int

	debts         map[int64]*model.Debt
	lastDebtList  upstream.DebtFilter
	clearedNotes  string
	verifyCalls   int
	roles         map[int64][]model.StaffRoleAssignment
	audit         []model.AuditLogEntry
	logoutErr     error
	logoutCalls   int
	unassignCalls int
}

func newMockExeatAPI() *mockExeatAPI {
	return &mockExeatAPI{
		requests: make(map[int64]*model.ExeatRequest),
		nextID:   100,
		debts:    make(map[int64]*model.Debt),
		roles:    make(map[int64][]model.StaffRoleAssignment),
	}
}

func (m *mockExeatAPI) put(r model.ExeatRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = &r
}

func (m *mockExeatAPI) Login(_ context.Context, _ upstream.Credentials) (*model.LoginResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.login, nil
}

func (m *mockExeatAPI) Logout(_ context.Context, _ string) error {
	m.logoutCalls++
	return m.logoutErr
}

func (m *mockExeatAPI) ListExeatRequests(_ context.Context, _ string, f upstream.ExeatFilter) ([]model.ExeatRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = f
	var out []model.ExeatRequest
	for _, r := range m.requests {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.StudentID > 0 && r.StudentID != f.StudentID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockExeatAPI) GetExeatRequest(_ context.Context, _ string, id int64) (*model.ExeatRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	r, ok := m.requests[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockExeatAPI) CreateExeatRequest(_ context.Context, _ string, app *model.ExeatApplication) (*model.ExeatRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *app)
	m.nextID++
	r := &model.ExeatRequest{
		ID:               m.nextID,
		ExeatApplication: *app,
		Status:           string(workflow.StatusPending),
		CreatedAt:        time.Now(),
	}
	m.requests[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *mockExeatAPI) Act(_ context.Context, _ string, id int64, a workflow.Action, comment string) (*model.ExeatRequest, error) {
	m.mu.Lock()
	m.acts = append(m.acts, actCall{ID: id, Action: a, Comment: comment})
	fn := m.actFn
	m.mu.Unlock()
	if fn != nil {
		return fn(id, a)
	}
	return &model.ExeatRequest{}, nil
}

func (m *mockExeatAPI) ListDebts(_ context.Context, _ string, f upstream.DebtFilter) ([]model.Debt, error) {
	m.lastDebtList = f
	var out []model.Debt
	for _, d := range m.debts {
		if f.StudentID > 0 && d.StudentID != f.StudentID {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockExeatAPI) GetDebt(_ context.Context, _ string, id int64) (*model.Debt, error) {
	d, ok := m.debts[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockExeatAPI) CreateDebt(_ context.Context, _ string, in upstream.DebtInput) (*model.Debt, error) {
	d := &model.Debt{
		ID:             int64(len(m.debts) + 1),
		StudentID:      in.StudentID,
		ExeatRequestID: in.ExeatRequestID,
		Amount:         in.Amount,
		PaymentStatus:  string(workflow.DebtUnpaid),
	}
	m.debts[d.ID] = d
	return d, nil
}

func (m *mockExeatAPI) ClearDebt(_ context.Context, _ string, id int64, notes string) (*model.Debt, error) {
	d, ok := m.debts[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	m.clearedNotes = notes
	d.PaymentStatus = string(workflow.DebtCleared)
	d.Notes = notes
	cp := *d
	return &cp, nil
}

func (m *mockExeatAPI) VerifyPayment(_ context.Context, _ string, id int64, reference string) (*model.PaymentVerification, error) {
	m.verifyCalls++
	return &model.PaymentVerification{Verified: reference == "REF-OK"}, nil
}

func (m *mockExeatAPI) ListStaffRoles(_ context.Context, _ string, staffID int64) ([]model.StaffRoleAssignment, error) {
	return m.roles[staffID], nil
}

func (m *mockExeatAPI) AssignExeatRole(_ context.Context, _ string, staffID, roleID int64) (*model.StaffRoleAssignment, error) {
	a := model.StaffRoleAssignment{StaffID: staffID, ExeatRoleID: roleID, AssignedAt: time.Now()}
	m.roles[staffID] = append(m.roles[staffID], a)
	return &a, nil
}

func (m *mockExeatAPI) UnassignExeatRole(_ context.Context, _ string, _, _ int64) error {
	m.unassignCalls++
	return nil
}

func (m *mockExeatAPI) ListAuditLogs(_ context.Context, _ string, _ upstream.AuditFilter) ([]model.AuditLogEntry, error) {
	out := make([]model.AuditLogEntry, len(m.audit))
	copy(out, m.audit)
	return out, nil
}

var _ ExeatAPI = (*mockExeatAPI)(nil)

// ── Mock session.Store ──

type mockSessionStore struct {
	sessions map[string]*session.Snapshot
	revoked  map[string]bool
	saveErr  error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		sessions: make(map[string]*session.Snapshot),
		revoked:  make(map[string]bool),
	}
}

func (m *mockSessionStore) Save(_ context.Context, snap *session.Snapshot, _ time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[snap.ID] = snap
	return nil
}

func (m *mockSessionStore) Load(_ context.Context, id string) (*session.Snapshot, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, session.ErrNotFound
}

func (m *mockSessionStore) Invalidate(_ context.Context, id, tokenID string, _ time.Duration) error {
	delete(m.sessions, id)
	m.revoked[tokenID] = true
	return nil
}

func (m *mockSessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return m.revoked[tokenID], nil
}

// ── Mock DraftRepository ──

type mockDraftRepo struct {
	drafts    map[int64]*model.ExeatDraft
	deleteErr error
}

func newMockDraftRepo() *mockDraftRepo {
	return &mockDraftRepo{drafts: make(map[int64]*model.ExeatDraft)}
}

func (m *mockDraftRepo) GetByStudent(_ context.Context, studentID int64) (*model.ExeatDraft, error) {
	if d, ok := m.drafts[studentID]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDraftRepo) Create(_ context.Context, d *model.ExeatDraft) error {
	if _, ok := m.drafts[d.StudentID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if d.Version == 0 {
		d.Version = 1
	}
	d.DraftID = "draft-" + time.Now().Format("150405.000000")
	cp := *d
	m.drafts[d.StudentID] = &cp
	return nil
}

func (m *mockDraftRepo) Update(_ context.Context, d *model.ExeatDraft) error {
	stored, ok := m.drafts[d.StudentID]
	if !ok || stored.Version != d.Version {
		return pkgerrors.ErrOptimisticLock
	}
	d.Version++
	cp := *d
	m.drafts[d.StudentID] = &cp
	return nil
}

func (m *mockDraftRepo) DeleteByStudent(_ context.Context, studentID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.drafts, studentID)
	return nil
}

// ── Fixtures ──

func studentSnap(id int64) *session.Snapshot {
	return &session.Snapshot{
		ID:    "sess-student",
		Token: "tok-student",
		User:  model.User{ID: id, FirstName: "Ada", LastName: "Obi", Type: "student", MatricNo: "VUG/CSC/21/0001"},
		Roles: workflow.NewRoleSet(workflow.RoleStudent),
	}
}

func staffSnap(id int64, roles ...workflow.Role) *session.Snapshot {
	return &session.Snapshot{
		ID:    "sess-staff",
		Token: "tok-staff",
		User:  model.User{ID: id, FirstName: "Grace", LastName: "Eze", Type: "staff"},
		Roles: workflow.NewRoleSet(roles...),
	}
}

func sampleRequest(id int64, status workflow.Status) model.ExeatRequest {
	return model.ExeatRequest{
		ID:       id,
		MatricNo: "VUG/CSC/21/0001",
		ExeatApplication: model.ExeatApplication{
			StudentID:              7,
			CategoryID:             model.CategoryCasual,
			Reason:                 "Family wedding",
			Destination:            "Enugu",
			DepartureDate:          "2026-03-10",
			ReturnDate:             "2026-03-14",
			PreferredModeOfContact: model.ContactPhoneCall,
			ParentPhoneNo:          "08030000000",
		},
		Status: string(status),
	}
}

func validApplication() model.ExeatApplication {
	return sampleRequest(0, workflow.StatusPending).ExeatApplication
}

func testMachine() *workflow.Machine {
	return workflow.NewMachine(workflow.MustGateTable(workflow.DefaultGateConfig()), zap.NewNop())
}
