package editor

import "fmt"

type NotificationKind string

const (
	KindSaveSucceeded    NotificationKind = "save_succeeded"
	KindSaveConflict     NotificationKind = "save_conflict"
	KindValidationFailed NotificationKind = "validation_failed"
	KindPasswordMismatch NotificationKind = "password_mismatch"
	KindNotFound         NotificationKind = "not_found"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

const (
	msgSaveSucceeded    = "Data updated"
	msgSaveConflict     = "Error updating the data. Somebody else has updated the record while you were making changes."
	msgValidationFailed = "Failed to update the data. Check again that all values are valid"
	msgPasswordMismatch = "Passwords do not match"
	msgNotFoundFormat   = "The requested user was not found, ID = %s"
)

// Notification is a user-facing outcome of a workflow operation.
type Notification struct {
	Kind     NotificationKind  `json:"kind"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func saveSucceeded() Notification {
	return Notification{Kind: KindSaveSucceeded, Severity: SeverityInfo, Message: msgSaveSucceeded}
}

func saveConflict() Notification {
	return Notification{Kind: KindSaveConflict, Severity: SeverityError, Message: msgSaveConflict}
}

func validationFailed(fields map[string]string) Notification {
	return Notification{Kind: KindValidationFailed, Severity: SeverityInfo, Message: msgValidationFailed, Fields: fields}
}

func passwordMismatch() Notification {
	return Notification{
		Kind:     KindPasswordMismatch,
		Severity: SeverityInfo,
		Message:  msgPasswordMismatch,
		Fields:   map[string]string{FieldConfirmPassword: "eqfield"},
	}
}

func notFound(rawID string) Notification {
	return Notification{Kind: KindNotFound, Severity: SeverityInfo, Message: fmt.Sprintf(msgNotFoundFormat, rawID)}
}
