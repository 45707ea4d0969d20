// AngelaMos | 2026
// prompt_test.go

package main

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()

	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, io.EOF
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestCollect(t *testing.T) {
	stubPasswords(t, "correct-horse", "correct-horse")

	var out strings.Builder
	req, err := collect(bufio.NewReader(strings.NewReader("Ada Lovelace\nAda@Example.com\n")), &out, 0)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", req.Name)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "correct-horse", req.Password)
	assert.Contains(t, out.String(), "Confirm password: ")
}

func TestCollect_Mismatch(t *testing.T) {
	stubPasswords(t, "correct-horse", "wrong-horse")

	_, err := collect(bufio.NewReader(strings.NewReader("Ada\nada@example.com\n")), io.Discard, 0)
	assert.EqualError(t, err, "passwords do not match")
}

func TestCollect_ShortPassword(t *testing.T) {
	stubPasswords(t, "short", "short")

	_, err := collect(bufio.NewReader(strings.NewReader("Ada\nada@example.com\n")), io.Discard, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 8")
}

func TestCollect_InvalidEmail(t *testing.T) {
	stubPasswords(t, "correct-horse", "correct-horse")

	_, err := collect(bufio.NewReader(strings.NewReader("Ada\nnot-an-email\n")), io.Discard, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestCollect_MissingInput(t *testing.T) {
	stubPasswords(t)

	_, err := collect(bufio.NewReader(strings.NewReader("")), io.Discard, 0)
	assert.Error(t, err)
}
