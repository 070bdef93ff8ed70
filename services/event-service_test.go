package services

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEventInputValidate(t *testing.T) {
	start := time.Now()
	end := start.Add(2 * time.Hour)

	valid := EventInput{Title: "Sprint review", Description: "Demo day", StartDate: start, EndDate: end}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventInputValidateMissingFields(t *testing.T) {
	start := time.Now()
	end := start.Add(time.Hour)

	cases := []EventInput{
		{Description: "no title", StartDate: start, EndDate: end},
		{Title: "no description", StartDate: start, EndDate: end},
		{Title: "no dates", Description: "x"},
	}
	for _, input := range cases {
		if err := input.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", input, err)
		}
	}
}

func TestEventInputValidateReversedRange(t *testing.T) {
	start := time.Now()
	input := EventInput{
		Title:       "Backwards",
		Description: "ends before it starts",
		StartDate:   start,
		EndDate:     start.Add(-time.Hour),
	}
	if err := input.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEventUpdateSetDocumentReplacesTaskList(t *testing.T) {
	tasks := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	patch := EventUpdate{Tasks: &tasks}

	set, err := patch.SetDocument()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := set["tasks"].([]primitive.ObjectID)
	if !ok {
		t.Fatalf("expected tasks in set document, got %v", set)
	}
	if len(got) != 2 || got[0] != tasks[0] || got[1] != tasks[1] {
		t.Fatal("task list replacement must preserve attachment order")
	}
}

func TestEventUpdateSetDocumentEmptyPatch(t *testing.T) {
	set, err := EventUpdate{}.SetDocument()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("empty patch must produce an empty set document, got %v", set)
	}
}

func TestEventUpdateSetDocumentEmptyRequiredField(t *testing.T) {
	empty := ""
	if _, err := (EventUpdate{Title: &empty}).SetDocument(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty title, got %v", err)
	}
	if _, err := (EventUpdate{Description: &empty}).SetDocument(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty description, got %v", err)
	}
}

func TestEventUpdateSetDocumentNeverTouchesOwner(t *testing.T) {
	title := "Renamed"
	set, err := EventUpdate{Title: &title}.SetDocument()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := set["createdBy"]; ok {
		t.Fatal("owner must be immutable through updates")
	}
}
