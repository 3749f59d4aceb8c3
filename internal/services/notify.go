// Package services – best-effort notification emission.
//
// Notifications are a side effect, never part of an operation's primary
// contract: a dispatch failure must not roll back the state transition that
// triggered it, and retries or duplicate triggers must not fan out twice.
// Dedupe is keyed (subject id, event) through the notification_records
// unique index; dispatch errors are logged at warn and swallowed.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/repo"
)

// emitNotification records the (subject, event) pair and, if it was not seen
// before, dispatches via the notifier. Safe to call with a nil notifier.
func emitNotification(ctx context.Context, db *gorm.DB, n Notifier, tenantID, event, subjectID string, payload map[string]string) {
	if err := repo.RecordNotification(ctx, db, subjectID, event, tenantID); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return // already emitted for this subject/event
		}
		log.Warn().Err(err).
			Str("event", event).
			Str("subject_id", subjectID).
			Msg("notification dedupe record failed")
		return
	}
	if n == nil {
		return
	}
	if err := n.Notify(ctx, tenantID, event, subjectID, payload); err != nil {
		log.Warn().Err(err).
			Str("event", event).
			Str("subject_id", subjectID).
			Str("tenant_id", tenantID).
			Msg("notification dispatch failed")
	}
}
