package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTaskStatusIsValid(t *testing.T) {
	for _, status := range []TaskStatus{StatusTodo, StatusPending, StatusCompleted} {
		if !status.IsValid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []TaskStatus{"", "done", "in progress"} {
		if status.IsValid() {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}

func TestTaskPriorityIsValid(t *testing.T) {
	for _, priority := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !priority.IsValid() {
			t.Fatalf("expected %q to be valid", priority)
		}
	}
	for _, priority := range []TaskPriority{"", "urgent"} {
		if priority.IsValid() {
			t.Fatalf("expected %q to be invalid", priority)
		}
	}
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	user := User{Username: "alice", Email: "alice@example.com", Password: "$2a$10$hash"}

	payload, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("failed to marshal user: %v", err)
	}
	if strings.Contains(string(payload), "hash") || strings.Contains(string(payload), "password") {
		t.Fatalf("password must never reach a client payload: %s", payload)
	}
}
