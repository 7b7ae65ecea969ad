package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aviatehq/aviate/adapters/clock"
	"github.com/aviatehq/aviate/domain/project"
	"github.com/aviatehq/aviate/domain/workflow"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

func newProjectService(users *fakeUserStore) *ProjectService {
	members := newFakeMemberStore()
	return NewProjectService(ProjectDeps{
		Projects: newFakeProjectStore(members),
		Members:  members,
		Users:    users,
		Clock:    clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		IDGen:    &fakeIDGen{},
		Logger:   zerolog.Nop(),
	})
}

func TestProjectCreateStartsAtFirstStage(t *testing.T) {
	svc := newProjectService(newFakeUserStore())

	p, err := svc.Create(context.Background(), "owner-1", "My Startup", "foundry")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Stage != "spark" {
		t.Errorf("stage = %q, want spark", p.Stage)
	}
	if p.OwnerID != "owner-1" {
		t.Errorf("owner = %q", p.OwnerID)
	}

	members, err := svc.Members(context.Background(), "owner-1", p.ID)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 1 || members[0].Role != project.RoleOwner {
		t.Errorf("members = %+v, want creator as owner", members)
	}
}

func TestProjectCreateUnknownProduct(t *testing.T) {
	svc := newProjectService(newFakeUserStore())
	if _, err := svc.Create(context.Background(), "o", "Name", "rocketos"); !errors.Is(err, workflow.ErrUnknownProduct) {
		t.Errorf("err = %v, want ErrUnknownProduct", err)
	}
}

func TestProjectAdvanceWalksStagesInOrder(t *testing.T) {
	svc := newProjectService(newFakeUserStore())
	p, _ := svc.Create(context.Background(), "owner-1", "My Startup", "launch")

	want := []string{"message", "channels", "liftoff"}
	for _, stage := range want {
		var err error
		p, err = svc.Advance(context.Background(), "owner-1", p.ID)
		if err != nil {
			t.Fatalf("Advance to %s: %v", stage, err)
		}
		if p.Stage != stage {
			t.Fatalf("stage = %q, want %q", p.Stage, stage)
		}
	}

	if _, err := svc.Advance(context.Background(), "owner-1", p.ID); !errors.Is(err, workflow.ErrFinalStage) {
		t.Errorf("err at final stage = %v, want ErrFinalStage", err)
	}
}

func TestProjectViewerCannotAdvance(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "viewer-1", Email: "v@example.com"})
	svc := newProjectService(users)

	p, _ := svc.Create(context.Background(), "owner-1", "My Startup", "foundry")
	if _, err := svc.AddMember(context.Background(), "owner-1", p.ID, "v@example.com", project.RoleViewer); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if _, err := svc.Advance(context.Background(), "viewer-1", p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("viewer advance err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Rename(context.Background(), "viewer-1", p.ID, "Other"); !errors.Is(err, ErrForbidden) {
		t.Errorf("viewer rename err = %v, want ErrForbidden", err)
	}
	// But they can see it.
	if _, err := svc.Get(context.Background(), "viewer-1", p.ID); err != nil {
		t.Errorf("viewer get err = %v", err)
	}
}

func TestProjectHiddenFromNonMembers(t *testing.T) {
	svc := newProjectService(newFakeUserStore())
	p, _ := svc.Create(context.Background(), "owner-1", "Secret", "foundry")

	if _, err := svc.Get(context.Background(), "stranger", p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger get err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "stranger", p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger delete err = %v, want ErrNotFound", err)
	}
}

func TestProjectMemberManagement(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "ed-1", Email: "ed@example.com"})
	svc := newProjectService(users)

	p, _ := svc.Create(context.Background(), "owner-1", "My Startup", "foundry")

	m, err := svc.AddMember(context.Background(), "owner-1", p.ID, "ed@example.com", project.RoleEditor)
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if m.Role != project.RoleEditor {
		t.Errorf("role = %q", m.Role)
	}

	// Editors cannot manage membership.
	if _, err := svc.AddMember(context.Background(), "ed-1", p.ID, "ed@example.com", project.RoleViewer); !errors.Is(err, ErrForbidden) {
		t.Errorf("editor add err = %v, want ErrForbidden", err)
	}

	// Unknown invitee email.
	if _, err := svc.AddMember(context.Background(), "owner-1", p.ID, "ghost@example.com", project.RoleViewer); !errors.Is(err, ErrNotFound) {
		t.Errorf("ghost invite err = %v, want ErrNotFound", err)
	}

	// Cannot grant owner via invite.
	if _, err := svc.AddMember(context.Background(), "owner-1", p.ID, "ed@example.com", project.RoleOwner); err == nil {
		t.Error("owner invite should fail")
	}

	// Owner cannot be removed.
	if err := svc.RemoveMember(context.Background(), "owner-1", p.ID, "owner-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("remove owner err = %v, want ErrForbidden", err)
	}

	if err := svc.RemoveMember(context.Background(), "owner-1", p.ID, "ed-1"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := svc.Get(context.Background(), "ed-1", p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed member still sees project: %v", err)
	}
}

func TestProjectListIncludesMemberships(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "ed-1", Email: "ed@example.com"})
	svc := newProjectService(users)

	mine, _ := svc.Create(context.Background(), "ed-1", "Mine", "foundry")
	theirs, _ := svc.Create(context.Background(), "owner-1", "Theirs", "launch")
	svc.Create(context.Background(), "owner-1", "Not mine", "launch")
	if _, err := svc.AddMember(context.Background(), "owner-1", theirs.ID, "ed@example.com", project.RoleViewer); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(context.Background(), "ed-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d projects, want 2", len(list))
	}
	ids := map[string]bool{list[0].ID: true, list[1].ID: true}
	if !ids[mine.ID] || !ids[theirs.ID] {
		t.Errorf("list = %+v", list)
	}
}
