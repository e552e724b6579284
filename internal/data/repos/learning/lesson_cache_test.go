package learning

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
)

func TestLessonCacheRepoKeepsOneRowPerKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewLessonCacheRepo(db, testutil.Logger(t))

	if got, err := repo.Get(dbc, "c-1", "Intro"); err != nil || got != nil {
		t.Fatalf("Get before insert: err=%v got=%v", err, got)
	}

	for _, body := range []string{"# v1", "# v2"} {
		row := &types.CachedLesson{
			CourseID:        "c-1",
			LessonTitle:     "Intro",
			ContentMarkdown: body,
			MermaidCode:     "mindmap\n  root((Intro))",
			CreatedAt:       time.Now().UTC(),
		}
		if err := repo.Upsert(dbc, row); err != nil {
			t.Fatalf("Upsert %q: %v", body, err)
		}
	}

	var count int64
	if err := tx.Model(&types.CachedLesson{}).Where("course_id = ? AND lesson_title = ?", "c-1", "Intro").Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows: want 1 got %d", count)
	}
	got, err := repo.Get(dbc, "c-1", "Intro")
	if err != nil || got == nil {
		t.Fatalf("Get: err=%v got=%v", err, got)
	}
	if got.ContentMarkdown != "# v2" {
		t.Fatalf("content: want latest write, got %q", got.ContentMarkdown)
	}
}
