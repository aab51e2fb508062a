package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/repository"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

func setupTestDraftService() (DraftService, *mockDraftRepo, *mockExeatAPI) {
	api := newMockExeatAPI()
	drafts := newMockDraftRepo()
	repo := &repository.Repository{Draft: drafts}
	exeats := NewExeatService(api, testMachine(), time.UTC, zap.NewNop())
	return NewDraftService(repo, exeats, zap.NewNop()), drafts, api
}

func TestDraft_SaveVersions(t *testing.T) {
	svc, _, _ := setupTestDraftService()
	ctx := context.Background()
	me := studentSnap(7)

	app := validApplication()
	app.Reason = ""
	d, err := svc.Save(ctx, me, &dto.SaveDraftRequest{Version: 0, Application: app})
	if err != nil {
		t.Fatalf("first save should create, got %v", err)
	}
	if d.Version != 1 {
		t.Errorf("expected version 1, got %d", d.Version)
	}
	if len(d.Problems) == 0 {
		t.Error("an incomplete draft should list its problems")
	}

	// creating again conflicts
	if _, err := svc.Save(ctx, me, &dto.SaveDraftRequest{Version: 0, Application: app}); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}

	app.Reason = "Family wedding"
	d, err = svc.Save(ctx, me, &dto.SaveDraftRequest{Version: 1, Application: app})
	if err != nil {
		t.Fatalf("update should succeed, got %v", err)
	}
	if d.Version != 2 || len(d.Problems) != 0 {
		t.Errorf("expected a complete version 2, got %+v", d)
	}

	// a stale version conflicts
	if _, err := svc.Save(ctx, me, &dto.SaveDraftRequest{Version: 1, Application: app}); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}
}

func TestDraft_StudentsOnly(t *testing.T) {
	svc, _, _ := setupTestDraftService()
	if _, err := svc.Get(context.Background(), staffSnap(1, workflow.RoleDean)); !errors.Is(err, ErrDraftStudentOnly) {
		t.Errorf("expected ErrDraftStudentOnly, got %v", err)
	}
}

func TestDraft_GetAndDeleteMissing(t *testing.T) {
	svc, _, _ := setupTestDraftService()
	me := studentSnap(7)
	if _, err := svc.Get(context.Background(), me); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), me); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestDraft_Submit(t *testing.T) {
	svc, drafts, api := setupTestDraftService()
	ctx := context.Background()
	me := studentSnap(7)

	if _, err := svc.Save(ctx, me, &dto.SaveDraftRequest{Application: validApplication()}); err != nil {
		t.Fatal(err)
	}
	v, err := svc.Submit(ctx, me)
	if err != nil {
		t.Fatalf("Submit should succeed, got %v", err)
	}
	if v.Status.Code != string(workflow.StatusPending) {
		t.Errorf("submitted request should be pending, got %s", v.Status.Code)
	}
	if len(api.created) != 1 || api.created[0].StudentID != 7 {
		t.Errorf("expected one request for student 7, got %+v", api.created)
	}
	if _, ok := drafts.drafts[7]; ok {
		t.Error("the draft should be removed after submission")
	}
}

func TestDraft_SubmitInvalidKeepsDraft(t *testing.T) {
	svc, drafts, api := setupTestDraftService()
	ctx := context.Background()
	me := studentSnap(7)

	app := validApplication()
	app.Destination = ""
	if _, err := svc.Save(ctx, me, &dto.SaveDraftRequest{Application: app}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(ctx, me); pkgerrors.KindOf(err) != pkgerrors.KindValidation {
		t.Errorf("expected a validation error, got %v", err)
	}
	if len(api.created) != 0 {
		t.Error("invalid drafts must not be sent")
	}
	if _, ok := drafts.drafts[7]; !ok {
		t.Error("the draft should survive a failed submission")
	}
}
