package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

func TestCreateConversation_OnePerAccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c := &domain.AccessConversation{AnimalAccessID: "acc-1", ThreadID: "th-1"}
	if err := CreateConversation(ctx, db, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" {
		t.Fatalf("id not assigned")
	}

	loser := &domain.AccessConversation{AnimalAccessID: "acc-1", ThreadID: "th-2"}
	if err := CreateConversation(ctx, db, loser); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second conversation = %v; want ErrDuplicate", err)
	}

	got, err := GetConversationByAccess(ctx, db, "acc-1")
	if err != nil || got.ThreadID != "th-1" {
		t.Fatalf("winner row = %+v, %v", got, err)
	}
	if _, err := GetConversationByAccess(ctx, db, "acc-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing conversation = %v; want ErrNotFound", err)
	}
}

func TestRecordNotification_Dedupes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := RecordNotification(ctx, db, "subj-1", "inquiry_received", "t1"); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := RecordNotification(ctx, db, "subj-1", "inquiry_received", "t1"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("repeat record = %v; want ErrDuplicate", err)
	}
	// A different event for the same subject is distinct.
	if err := RecordNotification(ctx, db, "subj-1", "inquiry_responded", "t1"); err != nil {
		t.Fatalf("different event: %v", err)
	}
}
