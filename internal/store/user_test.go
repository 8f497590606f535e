package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/C241-PS090/backend-api/types"
)

func TestBuildProfileSet_OnlySetFields(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	name := "Ann"
	age := 30

	assignments, args := buildProfileSet(types.ProfileUpdate{Name: &name, Age: &age}, now)

	wantAssignments := []string{"updated_at = $1", "name = $2", "age = $3"}
	if !reflect.DeepEqual(assignments, wantAssignments) {
		t.Fatalf("assignments mismatch: got %v want %v", assignments, wantAssignments)
	}
	wantArgs := []any{now, "Ann", 30}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args mismatch: got %v want %v", args, wantArgs)
	}
}

func TestBuildProfileSet_EmptyUpdateStillStampsUpdatedAt(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assignments, args := buildProfileSet(types.ProfileUpdate{}, now)

	if len(assignments) != 1 || assignments[0] != "updated_at = $1" {
		t.Fatalf("expected only updated_at assignment, got %v", assignments)
	}
	if len(args) != 1 {
		t.Fatalf("expected one arg, got %v", args)
	}
}

func TestBuildProfileSet_AllFields(t *testing.T) {
	t.Parallel()

	name := "Bob"
	gender := "male"
	age := 41
	url := "https://storage.googleapis.com/bucket/profile_pictures/u1_me.png"

	assignments, _ := buildProfileSet(types.ProfileUpdate{
		Name:              &name,
		Gender:            &gender,
		Age:               &age,
		ProfilePictureURL: &url,
	}, time.Now())

	want := []string{
		"updated_at = $1",
		"name = $2",
		"gender = $3",
		"age = $4",
		"profile_picture_url = $5",
	}
	if !reflect.DeepEqual(assignments, want) {
		t.Fatalf("assignments mismatch: got %v want %v", assignments, want)
	}
}
