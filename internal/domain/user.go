package domain

import "time"

// User represents a registered account. The password is stored only as a
// bcrypt hash and is never serialized in API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SignUpRequest is the payload for registering a new account.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the payload for authenticating an existing account.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the sign-up fields against the account constraints.
func (r *SignUpRequest) Validate() error {
	if n := len(r.Name); n < 2 || n > 50 {
		return NewValidationError("name", "must be between 2 and 50 characters")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

func validateEmail(email string) error {
	if n := len(email); n < 6 || n > 255 {
		return NewValidationError("email", "must be between 6 and 255 characters")
	}
	return nil
}

// UpdateUserRequest carries a partial account update. Nil fields are left
// untouched; a non-nil password is re-hashed before persistence.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Validate checks the supplied fields against the account constraints.
func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil {
		if n := len(*r.Name); n < 2 || n > 50 {
			return NewValidationError("name", "must be between 2 and 50 characters")
		}
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Password != nil {
		if err := validatePassword(*r.Password); err != nil {
			return err
		}
	}
	return nil
}

func validatePassword(password string) error {
	if n := len(password); n < 6 || n > 255 {
		return NewValidationError("password", "must be between 6 and 255 characters")
	}
	return nil
}
