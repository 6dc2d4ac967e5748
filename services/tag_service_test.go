package services

import (
	"context"
	"net/http"
	"testing"
)

func TestTagCreateDuplicateName(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "Work"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "Work"}); appErrCode(err) != http.StatusConflict {
		t.Fatalf("duplicate must be 409, got %v", err)
	}
	// Explicit create is literal: a different casing is a different tag.
	if _, err := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "work"}); err != nil {
		t.Fatalf("different casing must pass explicit create: %v", err)
	}
	// Another user is free to use the same name.
	if _, err := env.tagSvc.Create(ctx, 2, CreateTagInput{Name: "Work"}); err != nil {
		t.Fatalf("other user same name: %v", err)
	}
}

func TestTagUpdateRenameConflict(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, _ := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "a"})
	if _, err := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "b"
	if _, err := env.tagSvc.Update(ctx, 1, a.ID, UpdateTagInput{Name: &name}); appErrCode(err) != http.StatusConflict {
		t.Fatalf("rename onto taken name must be 409, got %v", err)
	}

	same := "a"
	color := "#ff0000"
	updated, err := env.tagSvc.Update(ctx, 1, a.ID, UpdateTagInput{Name: &same, Color: &color})
	if err != nil {
		t.Fatalf("keeping own name must pass: %v", err)
	}
	if updated.Color != "#ff0000" {
		t.Fatalf("color not updated: %+v", updated)
	}
}

func TestTagOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tag, _ := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "mine"})

	if _, err := env.tagSvc.Get(ctx, 2, tag.ID); appErrCode(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for other user, got %v", err)
	}
	if _, err := env.tagSvc.Get(ctx, 1, 999); appErrCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for missing tag, got %v", err)
	}
}

func TestTagDeleteDetachesItems(t *testing.T) {
	env := newTestEnv()
	env.usage.seed(1)
	ctx := context.Background()

	tag, _ := env.tagSvc.Create(ctx, 1, CreateTagInput{Name: "todo"})
	item, err := env.itemSvc.Create(ctx, 1, CreateItemInput{
		Type: "NOTE", Title: "t", Content: "x", TagIDs: []uint{tag.ID},
	}, nil)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := env.tagSvc.Delete(ctx, 1, tag.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	reloaded, err := env.itemSvc.Get(ctx, 1, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if len(reloaded.Tags) != 0 {
		t.Fatalf("item must lose the deleted tag, got %+v", reloaded.Tags)
	}
}

func TestListTagsEmptyIsNotNil(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tags, err := env.tagSvc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tags == nil || len(tags) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tags)
	}
}
