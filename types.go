package session

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the normalized attributes of an authenticated visitor.
// Immutable once constructed: replaced wholesale on login, cleared wholesale
// on logout. ID is the stable key, DisplayName and Email are display only.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
}

// Validate checks the identity is complete enough to enter a session.
func (i Identity) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Email, is.Email),
		validation.Field(&i.Role, validation.Required, validation.By(validateRole)),
	)
}

func validateRole(value any) error {
	role, _ := value.(Role)
	if !role.IsValid() {
		return fmt.Errorf("unknown role: %q", role)
	}
	return nil
}

// Config holds session options
type Config interface {
	GetLoginPath() string
	GetPublicLanding() string
	GetRejectedRouteKey() string
	GetStorageNamespace() string
	GetLoginTimeout() int
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
