package validation

import (
	"testing"

	"quiz-arena/internal/dto"
	"quiz-arena/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		req    dto.RegisterRequest
		fields []string
	}{
		{"valid", dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}, nil},
		{"all missing", dto.RegisterRequest{}, []string{"username", "email", "password"}},
		{"short username", dto.RegisterRequest{Username: "al", Email: "alice@example.com", Password: "secret1"}, []string{"username"}},
		{"username with spaces", dto.RegisterRequest{Username: "al ice", Email: "alice@example.com", Password: "secret1"}, []string{"username"}},
		{"bad email", dto.RegisterRequest{Username: "alice", Email: "alice@", Password: "secret1"}, []string{"email"}},
		{"email without domain dot", dto.RegisterRequest{Username: "alice", Email: "alice@localhost", Password: "secret1"}, []string{"email"}},
		{"short password", dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "12345"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateRegister(tt.req)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidatePasswordDoesNotLeakValue(t *testing.T) {
	errs := NewValidator().ValidateRegister(dto.RegisterRequest{Username: "alice", Email: "a@b.io", Password: "abc"})
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Value)
}

func TestValidateProfileUpdate(t *testing.T) {
	v := NewValidator()
	assert.Len(t, v.ValidateProfileUpdate(dto.UpdateProfileRequest{}), 1)
	assert.Empty(t, v.ValidateProfileUpdate(dto.UpdateProfileRequest{Email: "new@example.com"}))
	assert.Len(t, v.ValidateProfileUpdate(dto.UpdateProfileRequest{Username: "x", Password: "1"}), 2)
}

func TestValidateLogin(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateLogin(dto.LoginRequest{Email: "a@b.io", Password: "x"}))
	assert.Empty(t, v.ValidateLogin(dto.LoginRequest{Identifier: "alice", Password: "x"}))
	assert.Len(t, v.ValidateLogin(dto.LoginRequest{}), 2)
}

func TestValidateQuestionRequest(t *testing.T) {
	v := NewValidator()
	zero := 0
	assert.Empty(t, v.ValidateQuestionRequest(dto.QuestionRequest{CorrectOption: &zero}))
	assert.Len(t, v.ValidateQuestionRequest(dto.QuestionRequest{}), 1)
}

func TestValidateIDAndLimit(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateID("id", util.NewULID()))
	assert.Len(t, v.ValidateID("id", ""), 1)
	assert.Len(t, v.ValidateID("id", "abc"), 1)

	assert.Empty(t, v.ValidateLimit(0, 100))
	assert.Empty(t, v.ValidateLimit(100, 100))
	assert.Len(t, v.ValidateLimit(101, 100), 1)
	assert.Len(t, v.ValidateLimit(-1, 100), 1)
}
