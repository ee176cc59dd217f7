package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func TestValidatorRejectsWhitespaceInLogin(t *testing.T) {
	v := NewValidator()

	valid := domain.CreateUserRequest{
		Email:    "alice@example.com",
		Login:    "alice",
		Birthday: domain.NewDate(1990, time.January, 1),
	}
	require.NoError(t, v.Struct(valid))

	for _, login := range []string{"bad login", " alice", "alice ", "tab\tlogin"} {
		bad := valid
		bad.Login = login
		require.Error(t, v.Struct(bad), "login %q", login)
	}
}
