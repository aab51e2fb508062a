package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

func TestResolveRoles_MergesPrimaryAndList(t *testing.T) {
	login := &model.LoginResult{
		Role: "dean",
		User: model.User{ID: 7, Type: "staff"},
		Roles: []model.ExeatRoleRef{
			{Name: "deputy-dean"},
			{Name: "hostel"},
			{Name: "librarian"},
		},
	}
	got := ResolveRoles(login)
	want := []workflow.Role{workflow.RoleDean, workflow.RoleDeputyDean, workflow.RoleHostelAdmin}
	if len(got) != len(want) {
		t.Fatalf("expected %d roles, got %v", len(want), got.List())
	}
	for _, r := range want {
		if !got.Has(r) {
			t.Errorf("missing role %s", r)
		}
	}
}

func TestResolveRoles_StudentFallback(t *testing.T) {
	got := ResolveRoles(&model.LoginResult{User: model.User{Type: "student"}})
	if !got.Has(workflow.RoleStudent) || len(got) != 1 {
		t.Errorf("expected {student}, got %v", got.List())
	}

	got = ResolveRoles(&model.LoginResult{User: model.User{Type: "staff"}})
	if len(got) != 0 {
		t.Errorf("staff without exeat roles should hold none, got %v", got.List())
	}
}

func TestResolveRoles_ObjectAndStringRoles(t *testing.T) {
	raw := `{"token":"t","role":"","user":{"id":1,"fname":"A","lname":"B","email":"a@b.c"},
		"roles":["cmd",{"id":3,"name":"security","display_name":"Security"}]}`
	var login model.LoginResult
	if err := json.Unmarshal([]byte(raw), &login); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := ResolveRoles(&login)
	if !got.Has(workflow.RoleCMD) || !got.Has(workflow.RoleSecurity) {
		t.Errorf("unexpected roles %v", got.List())
	}
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	snap := New(&model.LoginResult{
		Token: "upstream-token",
		Role:  "admin",
		User:  model.User{ID: 9, FirstName: "Ngozi", LastName: "Eze", Type: "staff"},
		Roles: []model.ExeatRoleRef{{Name: "dean"}},
	}, now)
	if snap.ID == "" {
		t.Fatal("expected a session id")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != snap.ID || back.Token != snap.Token || !back.CreatedAt.Equal(now) {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if !back.Roles.Has(workflow.RoleAdmin) || !back.Roles.Has(workflow.RoleDean) {
		t.Errorf("roles lost: %v", back.Roles.List())
	}
}

func TestSnapshot_PrimaryRole(t *testing.T) {
	s := &Snapshot{Roles: workflow.NewRoleSet(workflow.RoleStudent)}
	if s.PrimaryRole() != workflow.RoleStudent {
		t.Errorf("expected student, got %s", s.PrimaryRole())
	}
	s = &Snapshot{Roles: workflow.NewRoleSet(workflow.RoleStudent, workflow.RoleSecurity)}
	if s.PrimaryRole() != workflow.RoleSecurity {
		t.Errorf("expected security, got %s", s.PrimaryRole())
	}
	s = &Snapshot{Roles: workflow.NewRoleSet()}
	if s.PrimaryRole() != workflow.RoleStudent {
		t.Errorf("empty set should fall back to student, got %s", s.PrimaryRole())
	}
}
