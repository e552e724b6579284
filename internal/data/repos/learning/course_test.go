package learning

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
)

func TestCourseRepoUpsertIsIdempotentOnUserAndCourseID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewCourseRepo(db, testutil.Logger(t))

	email := "courserepo@example.com"
	first := &types.Course{
		UserEmail:       email,
		CourseID:        "c-1",
		Title:           "Go",
		Topic:           "Go",
		Level:           "Beginner",
		ProgressPercent: 10,
		ChaptersJSON:    datatypes.JSON(`[{"title":"Intro","lessons":["Hello"]}]`),
		LastAccessed:    time.Now().UTC(),
	}
	if err := repo.Upsert(dbc, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := &types.Course{
		UserEmail:       email,
		CourseID:        "c-1",
		Title:           "Go",
		Topic:           "Go",
		Level:           "Beginner",
		ProgressPercent: 55,
		ChaptersJSON:    datatypes.JSON(`[]`),
		LastAccessed:    time.Now().UTC(),
	}
	if err := repo.Upsert(dbc, second); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	rows, err := repo.ListByUser(dbc, email)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if rows[0].ProgressPercent != 55 {
		t.Fatalf("progress_percent: want 55 got %d", rows[0].ProgressPercent)
	}
	if rows[0].Chapters == nil || len(rows[0].Chapters) != 0 {
		t.Fatalf("chapters: want empty non-nil list got %#v", rows[0].Chapters)
	}
}

func TestCourseRepoGetDecodesChapters(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.New(context.Background())
	repo := NewCourseRepo(db, testutil.Logger(t))

	c := &types.Course{
		UserEmail:    "getcourse@example.com",
		CourseID:     "c-2",
		Title:        "Rust",
		ChaptersJSON: datatypes.JSON(`[{"title":"Ownership","lessons":["Borrowing","Lifetimes"]}]`),
		LastAccessed: time.Now().UTC(),
	}
	if err := repo.Upsert(dbc, c); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByUserAndCourseID(dbc, "getcourse@example.com", "c-2")
	if err != nil || got == nil {
		t.Fatalf("GetByUserAndCourseID: err=%v got=%v", err, got)
	}
	if len(got.Chapters) != 1 || got.Chapters[0].Title != "Ownership" || len(got.Chapters[0].Lessons) != 2 {
		t.Fatalf("chapters: %#v", got.Chapters)
	}

	missing, err := repo.GetByUserAndCourseID(dbc, "getcourse@example.com", "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing course: err=%v got=%v", err, missing)
	}
	other, err := repo.GetByUserAndCourseID(dbc, "someone@example.com", "c-2")
	if err != nil || other != nil {
		t.Fatalf("other user's course: err=%v got=%v", err, other)
	}
}

func TestCourseRepoListOrdersByLastAccessedAndRecentTopics(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.New(context.Background())
	repo := NewCourseRepo(db, testutil.Logger(t))

	email := "order@example.com"
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, topic := range []string{"Old", "Middle", "New"} {
		c := &types.Course{
			UserEmail:    email,
			CourseID:     topic,
			Title:        topic,
			Topic:        topic,
			LastAccessed: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Upsert(dbc, c); err != nil {
			t.Fatalf("Upsert %s: %v", topic, err)
		}
	}

	rows, err := repo.ListByUser(dbc, email)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if rows[0].CourseID != "New" || rows[2].CourseID != "Old" {
		t.Fatalf("order: %s, %s, %s", rows[0].CourseID, rows[1].CourseID, rows[2].CourseID)
	}

	topics, err := repo.ListRecentTopics(dbc, email, 2)
	if err != nil {
		t.Fatalf("ListRecentTopics: %v", err)
	}
	if len(topics) != 2 || topics[0] != "New" || topics[1] != "Middle" {
		t.Fatalf("topics: %v", topics)
	}

	empty, err := repo.ListByUser(dbc, "nobody@example.com")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty list: err=%v rows=%v", err, empty)
	}
}
