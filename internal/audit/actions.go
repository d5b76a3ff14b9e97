// Package audit provides the append-only audit trail domain module.
package audit

import "tejwal_backend/internal/audit/actions"

// Closed action vocabulary, re-exported from the leaf actions package so
// callers keep using audit.ActionX. Unrecognized actions are still stored
// verbatim but logged as a monitoring signal.
const (
	ActionCreateQuote   = actions.ActionCreateQuote
	ActionUpdateQuote   = actions.ActionUpdateQuote
	ActionDeleteQuote   = actions.ActionDeleteQuote
	ActionApproveQuote  = actions.ActionApproveQuote
	ActionCancelQuote   = actions.ActionCancelQuote
	ActionRevertToDraft = actions.ActionRevertToDraft
	ActionSendQuote     = actions.ActionSendQuote
	ActionSendWhatsApp  = actions.ActionSendWhatsApp
	ActionDownloadPDF   = actions.ActionDownloadPDF
	ActionCreateUser    = actions.ActionCreateUser
)

// IsKnownAction reports whether the action belongs to the closed vocabulary.
func IsKnownAction(action string) bool {
	return actions.IsKnownAction(action)
}
