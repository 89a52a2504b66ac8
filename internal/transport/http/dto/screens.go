package dto

import (
	"fmt"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/editor"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

// -------- Requests --------

type OpenScreenRequest struct {
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	Unpaged bool `json:"unpaged"`
}

func (r *OpenScreenRequest) Validate() error {
	if r.Page < 0 {
		return domain.ErrInvalidField("page", "must be >= 0")
	}
	if r.Size < 0 || r.Size > domain.MaxPageSize {
		return domain.ErrInvalidField("size", fmt.Sprintf("must be between 0 and %d", domain.MaxPageSize))
	}
	return nil
}

// SelectRequest picks a listing row. A null id clears the selection.
type SelectRequest struct {
	ID *int64 `json:"id"`
}

func (r *SelectRequest) Validate() error {
	if r.ID != nil && *r.ID <= 0 {
		return domain.ErrInvalidField("id", "must be positive")
	}
	return nil
}

type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

func (r *PageRequest) Validate() error {
	if r.Page < 0 {
		return domain.ErrInvalidField("page", "must be >= 0")
	}
	if r.Size < 0 || r.Size > domain.MaxPageSize {
		return domain.ErrInvalidField("size", fmt.Sprintf("must be between 0 and %d", domain.MaxPageSize))
	}
	return nil
}

// FormRequest carries raw form values. Scalars are accepted so clients can
// send booleans as JSON booleans.
type FormRequest map[string]any

// Values flattens the request into the string form the editor binds.
func (r FormRequest) Values() (map[string]string, error) {
	if len(r) == 0 {
		return nil, domain.ErrMissingField("form")
	}
	out := make(map[string]string, len(r))
	for k, v := range r {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case bool:
			out[k] = strconv.FormatBool(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			return nil, domain.ErrInvalidField(k, "must be a scalar")
		}
	}
	return out, nil
}

// -------- Responses --------

type ScreenView struct {
	SessionID     string                `json:"session_id"`
	State         string                `json:"state"`
	SelectedID    *int64                `json:"selected_id"`
	Version       int64                 `json:"version"`
	Form          map[string]string     `json:"form"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
	Unpaged       bool                  `json:"unpaged"`
	Listing       []UserRow             `json:"listing"`
	Notifications []editor.Notification `json:"notifications"`
}

// ToScreenView renders a session snapshot. Typed passwords are blanked.
func ToScreenView(v editor.View) ScreenView {
	form := make(map[string]string, len(v.Form))
	for k, val := range v.Form {
		if k == editor.FieldPassword || k == editor.FieldConfirmPassword {
			val = ""
		}
		form[k] = val
	}
	return ScreenView{
		SessionID:     v.SessionID,
		State:         string(v.State),
		SelectedID:    v.SelectedID,
		Version:       v.Version,
		Form:          form,
		Page:          v.Page.Page,
		Size:          v.Page.Size,
		Unpaged:       v.Unpaged,
		Listing:       ToUserRows(v.Listing),
		Notifications: v.Notifications,
	}
}
