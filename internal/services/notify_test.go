package services

import (
	"context"
	"errors"
	"testing"
)

func TestEmitNotification_DedupesPerSubjectEvent(t *testing.T) {
	db := newServiceDB(t)
	n := &fakeNotifier{}
	ctx := context.Background()

	emitNotification(ctx, db, n, "t1", EventInquiryReceived, "subj-1", map[string]string{"k": "v"})
	emitNotification(ctx, db, n, "t1", EventInquiryReceived, "subj-1", nil) // duplicate trigger
	emitNotification(ctx, db, n, "t1", EventInquiryResponded, "subj-1", nil)

	if n.count() != 2 {
		t.Fatalf("dispatch count = %d; want 2", n.count())
	}
	if n.events[0].Event != EventInquiryReceived || n.events[0].Payload["k"] != "v" {
		t.Fatalf("first event = %+v", n.events[0])
	}
}

func TestEmitNotification_SwallowsDispatchErrorsAndNilNotifier(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	// Nil notifier: the dedupe row is still written, nothing panics.
	emitNotification(ctx, db, nil, "t1", EventAgreementRequested, "subj-1", nil)

	// A failing notifier is logged and swallowed.
	n := &fakeNotifier{err: errors.New("smtp down")}
	emitNotification(ctx, db, n, "t1", EventAgreementResolved, "subj-1", nil)
	if n.count() != 0 {
		t.Fatalf("failing notifier should record nothing")
	}
}
