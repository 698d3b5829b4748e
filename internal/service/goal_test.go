package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/repository"
	"github.com/templui/goalwizard/internal/testutil"
)

type services struct {
	goals      *GoalService
	actions    *ActionService
	dashboard  *DashboardService
	actionRepo repository.ActionRepository
}

func newServices(t *testing.T) services {
	t.Helper()

	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	actions := repository.NewActionRepository(database)
	completions := repository.NewCompletionRepository(database)

	return services{
		goals:      NewGoalService(targets),
		actions:    NewActionService(actions, targets, completions, time.UTC),
		dashboard:  NewDashboardService(actions, completions, time.UTC),
		actionRepo: actions,
	}
}

func saveInput(titles ...string) SaveGoalInput {
	in := SaveGoalInput{GoalTitle: "Run a 5k", Smart: testSmart}
	for _, title := range titles {
		in.Actions = append(in.Actions, SaveActionInput{
			Title:        title,
			Frequency:    "daily",
			UserDeadline: time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
		})
	}
	return in
}

func TestGoalService_SaveValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*SaveGoalInput)
		wantMsg string
	}{
		{name: "missing title", mutate: func(in *SaveGoalInput) { in.GoalTitle = " " }, wantMsg: "goalTitle is required."},
		{name: "incomplete smart", mutate: func(in *SaveGoalInput) { in.Smart.Relevant = "" }, wantMsg: "SMART details are incomplete."},
		{name: "no actions", mutate: func(in *SaveGoalInput) { in.Actions = nil }, wantMsg: "At least one action is required."},
		{name: "untitled action", mutate: func(in *SaveGoalInput) { in.Actions[0].Title = "" }, wantMsg: "actions[0].title is required."},
		{name: "bad deadline", mutate: func(in *SaveGoalInput) { in.Actions[0].UserDeadline = "soon" }, wantMsg: "actions[0].userDeadline must be a valid date."},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			in := saveInput("Train")
			test.mutate(&in)

			_, err := s.goals.Save(ctx, "user-1", in)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InputError, got %v", err)
			}
			if inputErr.Message != test.wantMsg {
				t.Errorf("expected %q, got %q", test.wantMsg, inputErr.Message)
			}
		})
	}
}

func TestGoalService_SaveRejectsOtherUser(t *testing.T) {
	s := newServices(t)

	in := saveInput("Train")
	in.UserID = "someone-else"
	if _, err := s.goals.Save(context.Background(), "user-1", in); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestGoalService_SaveLegacyDeadline(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	in := saveInput()
	in.Actions = []SaveActionInput{{Title: "Train", Deadline: "2026-10-30", Frequency: "MONTHLY", RepeatConfig: map[string]any{"dayOfMonth": 45.0}}}

	targetID, err := s.goals.Save(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("saving: %v", err)
	}

	actions, err := s.actions.List(ctx, "user-1", targetID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	a := actions[0]
	if !a.Deadline.Equal(time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected UTC midnight deadline, got %v", a.Deadline)
	}
	if a.Frequency != model.FrequencyMonthly || a.RepeatConfig != nil {
		t.Errorf("expected monthly without repeat config, got %q %+v", a.Frequency, a.RepeatConfig)
	}
}

func TestGoalService_SaveIsNotIdempotent(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	in := saveInput("Train")
	in.Actions[0].ActionID = "fixed-id"

	first, err := s.goals.Save(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := s.goals.Save(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first == second {
		t.Fatal("expected two distinct targets")
	}

	targets, err := s.goals.Targets(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("listing targets: %v", err)
	}
	if len(targets) != 2 {
		t.Errorf("expected 2 targets, got %d", len(targets))
	}
}

func TestGoalService_ArchiveCascade(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	archivedID, err := s.goals.Save(ctx, "user-1", saveInput("a", "b", "c"))
	if err != nil {
		t.Fatalf("saving: %v", err)
	}
	keptID, err := s.goals.Save(ctx, "user-1", saveInput("other"))
	if err != nil {
		t.Fatalf("saving: %v", err)
	}

	updated, err := s.goals.SetArchived(ctx, "user-1", archivedID, true)
	if err != nil {
		t.Fatalf("archiving: %v", err)
	}
	if updated != 3 {
		t.Errorf("expected 3 actions updated, got %d", updated)
	}

	all, err := s.actions.List(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	archived := 0
	for _, a := range all {
		if a.IsArchived {
			archived++
			if a.TargetID != archivedID {
				t.Errorf("unrelated action %q was archived", a.Title)
			}
		} else if a.TargetID != keptID {
			t.Errorf("action %q under archived target still active", a.Title)
		}
	}
	if archived != 3 {
		t.Errorf("expected exactly 3 archived actions, got %d", archived)
	}

	if _, err := s.goals.SetArchived(ctx, "user-1", archivedID, false); err != nil {
		t.Fatalf("unarchiving: %v", err)
	}
	visible, _ := s.goals.Targets(ctx, "user-1", false)
	if len(visible) != 2 {
		t.Errorf("expected restored target to be listed, got %d", len(visible))
	}
}

func TestGoalService_Delete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	targetID, err := s.goals.Save(ctx, "user-1", saveInput("a", "b"))
	if err != nil {
		t.Fatalf("saving: %v", err)
	}

	if _, err := s.goals.Delete(ctx, "intruder", targetID, DeleteHard); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	affected, err := s.goals.Delete(ctx, "user-1", targetID, DeleteSoft)
	if err != nil || affected != 2 {
		t.Fatalf("soft delete: affected=%d err=%v", affected, err)
	}
	all, _ := s.goals.Targets(ctx, "user-1", true)
	if len(all) != 1 || !all[0].Archived {
		t.Errorf("expected soft delete to archive the target")
	}

	affected, err = s.goals.Delete(ctx, "user-1", targetID, DeleteHard)
	if err != nil || affected != 2 {
		t.Fatalf("hard delete: affected=%d err=%v", affected, err)
	}
	if _, err := s.goals.Delete(ctx, "user-1", targetID, DeleteHard); !errors.Is(err, repository.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestParseDeleteMode(t *testing.T) {
	tests := map[string]DeleteMode{"hard": DeleteHard, "HARD": DeleteHard, "soft": DeleteSoft, "": DeleteSoft, "purge": DeleteSoft}
	for input, want := range tests {
		if got := ParseDeleteMode(input); got != want {
			t.Errorf("ParseDeleteMode(%q) = %q, want %q", input, got, want)
		}
	}
}
