// Package actions holds the audit action vocabulary in a leaf package so
// that audit subpackages can use it without importing the module wiring in
// the parent audit package.
package actions

// Closed action vocabulary. Unrecognized actions are still stored verbatim but
// logged as a monitoring signal.
const (
	ActionCreateQuote   = "CREATE_QUOTE"
	ActionUpdateQuote   = "UPDATE_QUOTE"
	ActionDeleteQuote   = "DELETE_QUOTE"
	ActionApproveQuote  = "APPROVE_QUOTE"
	ActionCancelQuote   = "CANCEL_QUOTE"
	ActionRevertToDraft = "REVERT_TO_DRAFT"
	ActionSendQuote     = "SEND_QUOTE"
	ActionSendWhatsApp  = "SEND_WHATSAPP"
	ActionDownloadPDF   = "DOWNLOAD_PDF"
	ActionCreateUser    = "CREATE_USER"
)

var knownActions = map[string]struct{}{
	ActionCreateQuote:   {},
	ActionUpdateQuote:   {},
	ActionDeleteQuote:   {},
	ActionApproveQuote:  {},
	ActionCancelQuote:   {},
	ActionRevertToDraft: {},
	ActionSendQuote:     {},
	ActionSendWhatsApp:  {},
	ActionDownloadPDF:   {},
	ActionCreateUser:    {},
}

// IsKnownAction reports whether the action belongs to the closed vocabulary.
func IsKnownAction(action string) bool {
	_, ok := knownActions[action]
	return ok
}
