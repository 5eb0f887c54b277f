package repository

import (
	"context"
	"testing"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
)

func TestNullRepository(t *testing.T) {
	ctx := context.Background()
	repo := Null{}

	if err := repo.Save(ctx, &models.ClipRecord{ShortCode: "abc12345"}); !errors.IsUnavailable(err) {
		t.Errorf("Save() expected unavailable error, got %v", err)
	}
	if _, err := repo.Find(ctx, "abc12345"); !errors.IsUnavailable(err) {
		t.Errorf("Find() expected unavailable error, got %v", err)
	}
	if _, err := repo.IncrementViews(ctx, "abc12345"); !errors.IsUnavailable(err) {
		t.Errorf("IncrementViews() expected unavailable error, got %v", err)
	}
}
