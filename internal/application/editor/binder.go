package editor

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

// Form field names.
const (
	FieldUsername    = "username"
	FieldFullName    = "full_name"
	FieldEmail       = "email"
	FieldEnabled     = "enabled"
	FieldDateOfBirth = "date_of_birth"
	FieldRole        = "role"
	FieldSector      = "sector"
	FieldLocality    = "locality"

	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

// FieldErrors maps a form field to the rule it failed.
type FieldErrors map[string]string

type binding struct {
	name  string
	rules string
	read  func(u domain.User) string
	write func(u *domain.User, v string) error
}

// Binder moves values between a User and its string form.
type Binder struct {
	v      *validator.Validate
	fields []binding
	index  map[string]int
}

func NewBinder() *Binder {
	v := validator.New()
	fields := []binding{
		{
			name:  FieldUsername,
			rules: "required,max=64",
			read:  func(u domain.User) string { return u.Username },
			write: func(u *domain.User, v string) error { u.Username = v; return nil },
		},
		{
			name:  FieldFullName,
			rules: "max=128",
			read:  func(u domain.User) string { return u.FullName },
			write: func(u *domain.User, v string) error { u.FullName = v; return nil },
		},
		{
			name:  FieldEmail,
			rules: "required,email,max=254",
			read:  func(u domain.User) string { return u.Email },
			write: func(u *domain.User, v string) error { u.Email = strings.ToLower(v); return nil },
		},
		{
			name:  FieldEnabled,
			rules: "omitempty,boolean",
			read:  func(u domain.User) string { return strconv.FormatBool(u.Enabled) },
			write: func(u *domain.User, v string) error {
				if v == "" {
					u.Enabled = false
					return nil
				}
				b, err := strconv.ParseBool(v)
				if err != nil {
					return err
				}
				u.Enabled = b
				return nil
			},
		},
		{
			name:  FieldDateOfBirth,
			rules: "omitempty,datetime=" + domain.DateLayout,
			read: func(u domain.User) string {
				if u.DateOfBirth == nil {
					return ""
				}
				return u.DateOfBirth.Format(domain.DateLayout)
			},
			write: func(u *domain.User, v string) error {
				if v == "" {
					u.DateOfBirth = nil
					return nil
				}
				d, err := time.Parse(domain.DateLayout, v)
				if err != nil {
					return err
				}
				u.DateOfBirth = &d
				return nil
			},
		},
		{
			name:  FieldRole,
			rules: "max=64",
			read:  func(u domain.User) string { return u.Role },
			write: func(u *domain.User, v string) error { u.Role = v; return nil },
		},
		{
			name:  FieldSector,
			rules: "max=128",
			read:  func(u domain.User) string { return u.Sector },
			write: func(u *domain.User, v string) error { u.Sector = v; return nil },
		},
		{
			name:  FieldLocality,
			rules: "max=128",
			read:  func(u domain.User) string { return u.Locality },
			write: func(u *domain.User, v string) error { u.Locality = v; return nil },
		},
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.name] = i
	}
	return &Binder{v: v, fields: fields, index: index}
}

func (b *Binder) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Names returns bound field names in display order.
func (b *Binder) Names() []string {
	out := make([]string, len(b.fields))
	for i, f := range b.fields {
		out[i] = f.name
	}
	return out
}

// Read populates a form from u.
func (b *Binder) Read(u domain.User) map[string]string {
	form := make(map[string]string, len(b.fields))
	for _, f := range b.fields {
		form[f.name] = f.read(u)
	}
	return form
}

// Empty returns a cleared form.
func (b *Binder) Empty() map[string]string {
	form := make(map[string]string, len(b.fields))
	for _, f := range b.fields {
		form[f.name] = ""
	}
	return form
}

// Validate checks every bound field and reports all failures.
func (b *Binder) Validate(form map[string]string) FieldErrors {
	errs := FieldErrors{}
	for _, f := range b.fields {
		val := strings.TrimSpace(form[f.name])
		if err := b.v.Var(val, f.rules); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) && len(ve) > 0 {
				errs[f.name] = ve[0].Tag()
			} else {
				errs[f.name] = "invalid"
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Write validates form and, only when every field passes, writes it into u.
func (b *Binder) Write(u *domain.User, form map[string]string) FieldErrors {
	if errs := b.Validate(form); errs != nil {
		return errs
	}
	next := u.Clone()
	for _, f := range b.fields {
		if err := f.write(&next, strings.TrimSpace(form[f.name])); err != nil {
			return FieldErrors{f.name: "invalid"}
		}
	}
	*u = next
	return nil
}
