// AngelaMos | 2026
// prompt.go

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/carterperez-dev/instaiq-backend/internal/auth"
	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

// readPassword reads without echo. Tests replace it.
var readPassword = term.ReadPassword

func collect(reader *bufio.Reader, w io.Writer, fd int) (auth.RegisterRequest, error) {
	var req auth.RegisterRequest

	name, err := prompt(reader, w, "Name")
	if err != nil {
		return req, err
	}
	email, err := prompt(reader, w, "Email")
	if err != nil {
		return req, err
	}

	fmt.Fprint(w, "Password: ")
	password, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return req, fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(w, "Confirm password: ")
	confirm, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return req, fmt.Errorf("read password: %w", err)
	}

	if string(password) != string(confirm) {
		return req, errors.New("passwords do not match")
	}

	req = auth.RegisterRequest{
		Name:     name,
		Email:    strings.ToLower(email),
		Password: string(password),
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(req); err != nil {
		return req, errors.New(core.FormatValidationError(err))
	}

	return req, nil
}

func prompt(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}

	return strings.TrimSpace(line), nil
}
