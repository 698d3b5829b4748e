package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/repository"
	"github.com/templui/goalwizard/internal/testutil"
)

func newTarget(userID, title string) *model.Target {
	now := time.Now().UTC()
	return &model.Target{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
		Status: model.TargetStatusActive,
		Smart: model.SMART{
			Specific:   "s",
			Measurable: "m",
			Achievable: "a",
			Relevant:   "r",
			TimeBased:  "t",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newAction(target *model.Target, title string, deadline time.Time) *model.Action {
	now := time.Now().UTC()
	return &model.Action{
		ID:             uuid.New().String(),
		TargetID:       target.ID,
		UserID:         target.UserID,
		Title:          title,
		Frequency:      model.FrequencyWeekly,
		RepeatConfig:   &model.RepeatConfig{OnDays: []string{"mon"}},
		Deadline:       deadline,
		CompletedDates: model.TimeList{},
		Status:         model.ActionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestTargetRepository_CreateWithActions(t *testing.T) {
	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	actions := repository.NewActionRepository(database)
	ctx := context.Background()

	target := newTarget("user-1", "Run a 5k")
	later := newAction(target, "Later", time.Now().UTC().Add(48*time.Hour))
	sooner := newAction(target, "Sooner", time.Now().UTC().Add(24*time.Hour))
	sooner.RepeatConfig = nil

	if err := targets.CreateWithActions(ctx, target, []*model.Action{later, sooner}); err != nil {
		t.Fatalf("creating target: %v", err)
	}

	stored, err := targets.ByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("loading target: %v", err)
	}
	if stored.Smart != target.Smart {
		t.Errorf("expected SMART %+v, got %+v", target.Smart, stored.Smart)
	}

	list, err := actions.Actions(ctx, "user-1", target.ID)
	if err != nil {
		t.Fatalf("listing actions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(list))
	}
	if list[0].Title != "Sooner" {
		t.Errorf("expected earliest deadline first, got %q", list[0].Title)
	}
	if list[0].RepeatConfig != nil {
		t.Errorf("expected nil repeat config, got %+v", list[0].RepeatConfig)
	}
	if list[1].RepeatConfig == nil || list[1].RepeatConfig.OnDays[0] != "mon" {
		t.Errorf("expected repeat config to round trip, got %+v", list[1].RepeatConfig)
	}
}

func TestTargetRepository_ReplacesTakenActionIDs(t *testing.T) {
	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	ctx := context.Background()

	first := newTarget("user-1", "Goal")
	action := newAction(first, "Step", time.Now().UTC())
	sharedID := action.ID
	if err := targets.CreateWithActions(ctx, first, []*model.Action{action}); err != nil {
		t.Fatalf("creating first target: %v", err)
	}

	second := newTarget("user-1", "Goal")
	again := newAction(second, "Step", time.Now().UTC())
	again.ID = sharedID
	if err := targets.CreateWithActions(ctx, second, []*model.Action{again}); err != nil {
		t.Fatalf("creating second target: %v", err)
	}
	if again.ID == sharedID {
		t.Error("expected a fresh id for the duplicated action")
	}
}

func TestTargetRepository_SetArchivedCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	actions := repository.NewActionRepository(database)
	ctx := context.Background()

	target := newTarget("user-1", "Archive me")
	var batch []*model.Action
	for _, title := range []string{"a", "b", "c"} {
		batch = append(batch, newAction(target, title, time.Now().UTC()))
	}
	if err := targets.CreateWithActions(ctx, target, batch); err != nil {
		t.Fatalf("creating target: %v", err)
	}

	other := newTarget("user-1", "Keep me")
	untouched := newAction(other, "other", time.Now().UTC())
	if err := targets.CreateWithActions(ctx, other, []*model.Action{untouched}); err != nil {
		t.Fatalf("creating other target: %v", err)
	}

	updated, err := targets.SetArchived(ctx, target.ID, true)
	if err != nil {
		t.Fatalf("archiving: %v", err)
	}
	if updated != 3 {
		t.Errorf("expected 3 actions updated, got %d", updated)
	}

	all, err := actions.Actions(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	for _, a := range all {
		want := a.TargetID == target.ID
		if a.IsArchived != want {
			t.Errorf("action %q archived = %v, want %v", a.Title, a.IsArchived, want)
		}
	}

	visible, err := targets.Targets(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("listing targets: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != other.ID {
		t.Errorf("expected only the unarchived target, got %d", len(visible))
	}

	if _, err := targets.SetArchived(ctx, "missing", true); !errors.Is(err, repository.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestTargetRepository_DeleteRemovesChildren(t *testing.T) {
	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	actions := repository.NewActionRepository(database)
	completions := repository.NewCompletionRepository(database)
	ctx := context.Background()

	target := newTarget("user-1", "Delete me")
	action := newAction(target, "a", time.Now().UTC())
	if err := targets.CreateWithActions(ctx, target, []*model.Action{action, newAction(target, "b", time.Now().UTC())}); err != nil {
		t.Fatalf("creating target: %v", err)
	}
	if _, err := completions.Add(ctx, &model.Completion{
		ID: uuid.New().String(), ActionID: action.ID, UserID: "user-1", Day: "2026-10-16", CompletedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("adding completion: %v", err)
	}

	deleted, err := targets.Delete(ctx, target.ID)
	if err != nil {
		t.Fatalf("deleting: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted actions, got %d", deleted)
	}

	if _, err := actions.ByID(ctx, action.ID); !errors.Is(err, repository.ErrActionNotFound) {
		t.Errorf("expected action to be gone, got %v", err)
	}
	if _, err := targets.ByID(ctx, target.ID); !errors.Is(err, repository.ErrTargetNotFound) {
		t.Errorf("expected target to be gone, got %v", err)
	}
}

func TestTargetRepository_Titles(t *testing.T) {
	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	ctx := context.Background()

	a := newTarget("user-1", "First")
	b := newTarget("user-1", "Second")
	for _, target := range []*model.Target{a, b} {
		if err := targets.CreateWithActions(ctx, target, nil); err != nil {
			t.Fatalf("creating target: %v", err)
		}
	}

	titles, err := targets.Titles(ctx, []string{a.ID, b.ID, "missing"})
	if err != nil {
		t.Fatalf("resolving titles: %v", err)
	}
	if titles[a.ID] != "First" || titles[b.ID] != "Second" {
		t.Errorf("unexpected titles %v", titles)
	}
	if _, ok := titles["missing"]; ok {
		t.Error("expected unknown id to be absent")
	}
}

func TestCompletionRepository_OnePerDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	targets := repository.NewTargetRepository(database)
	completions := repository.NewCompletionRepository(database)
	ctx := context.Background()

	target := newTarget("user-1", "Goal")
	action := newAction(target, "Daily", time.Now().UTC())
	if err := targets.CreateWithActions(ctx, target, []*model.Action{action}); err != nil {
		t.Fatalf("creating target: %v", err)
	}

	for i, want := range []bool{true, false} {
		created, err := completions.Add(ctx, &model.Completion{
			ID:          uuid.New().String(),
			ActionID:    action.ID,
			UserID:      "user-1",
			Day:         "2026-10-16",
			CompletedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("adding completion %d: %v", i, err)
		}
		if created != want {
			t.Errorf("attempt %d: created = %v, want %v", i, created, want)
		}
	}

	if _, err := completions.Add(ctx, &model.Completion{
		ID: uuid.New().String(), ActionID: action.ID, UserID: "user-1", Day: "2026-10-15", CompletedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("adding earlier completion: %v", err)
	}

	recent, err := completions.Recent(ctx, action.ID, 120)
	if err != nil {
		t.Fatalf("loading completions: %v", err)
	}
	if len(recent) != 2 || recent[0].Day != "2026-10-16" || recent[1].Day != "2026-10-15" {
		t.Errorf("expected 2 completions newest first, got %+v", recent)
	}
}
