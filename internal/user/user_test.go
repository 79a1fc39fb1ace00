package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOwner(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv(OwnerEnvVar, "  marta  ")
		assert.Equal(t, "marta", DefaultOwner())
	})

	t.Run("blank override falls back", func(t *testing.T) {
		t.Setenv(OwnerEnvVar, "   ")
		assert.NotEmpty(t, DefaultOwner())
	})

	t.Run("never empty", func(t *testing.T) {
		t.Setenv(OwnerEnvVar, "")
		t.Setenv("USER", "")
		assert.NotEmpty(t, DefaultOwner())
	})
}
