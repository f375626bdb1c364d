package validation

import (
	"net/mail"
	"regexp"
	"strings"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/util"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
	MaxEmailLength    = 255
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validator checks request shapes before they reach the services.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateRegister(req dto.RegisterRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	errs = append(errs, validateUsername(req.Username)...)
	errs = append(errs, validateEmail(req.Email)...)
	errs = append(errs, validatePassword(req.Password)...)
	return errs
}

func (v *Validator) ValidateLogin(req dto.LoginRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(req.LoginIdentifier()) == "" {
		errs = append(errs, domain.NewMissingFieldError("identifier"))
	}
	if req.Password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	}
	return errs
}

// ValidateProfileUpdate checks only the fields that are present; at least one is required.
func (v *Validator) ValidateProfileUpdate(req dto.UpdateProfileRequest) domain.ValidationErrors {
	if req.Username == "" && req.Email == "" && req.Password == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("username|email|password")}
	}
	var errs domain.ValidationErrors
	if req.Username != "" {
		errs = append(errs, validateUsername(req.Username)...)
	}
	if req.Email != "" {
		errs = append(errs, validateEmail(req.Email)...)
	}
	if req.Password != "" {
		errs = append(errs, validatePassword(req.Password)...)
	}
	return errs
}

// ValidateQuestionRequest checks presence; length and range rules live on domain.Question.
func (v *Validator) ValidateQuestionRequest(req dto.QuestionRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if req.CorrectOption == nil {
		errs = append(errs, domain.NewMissingFieldError("correctOption"))
	}
	return errs
}

// ValidateID checks that id is a ULID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// ValidateLimit accepts 0 (use the default) up to max.
func (v *Validator) ValidateLimit(limit, max int) domain.ValidationErrors {
	if limit < 0 || limit > max {
		return domain.ValidationErrors{domain.NewOutOfRangeError("limit", limit, 0, max)}
	}
	return nil
}

func validateUsername(username string) domain.ValidationErrors {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return domain.ValidationErrors{domain.NewMissingFieldError("username")}
	case len(username) < MinUsernameLength || len(username) > MaxUsernameLength:
		return domain.ValidationErrors{domain.NewOutOfRangeError("username", len(username), MinUsernameLength, MaxUsernameLength)}
	case !usernamePattern.MatchString(username):
		return domain.ValidationErrors{domain.NewInvalidFormatError("username", username)}
	}
	return nil
}

func validateEmail(email string) domain.ValidationErrors {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("email")}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(email) > MaxEmailLength || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return domain.ValidationErrors{domain.NewInvalidFormatError("email", email)}
	}
	return nil
}

// validatePassword never echoes the password back.
func validatePassword(password string) domain.ValidationErrors {
	if password == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("password")}
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError("password", len(password), MinPasswordLength, MaxPasswordLength)}
	}
	return nil
}
