package handler

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const passwordSpecials = "@$!%*?&#"

func appendEmailProblems(problems []string, email string) []string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return append(problems, "Email is required.")
	}
	if addr, err := mail.ParseAddress(trimmed); err != nil || addr.Address != trimmed {
		return append(problems, "Please provide a valid email address.")
	}
	return problems
}

func appendPasswordProblems(problems []string, password string) []string {
	if len(password) < 8 {
		problems = append(problems, "Password must be at least 8 characters long.")
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		problems = append(problems, fmt.Sprintf(
			"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character (%s).",
			passwordSpecials))
	}
	return problems
}

func appendNameProblems(problems []string, field, value string, required bool) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return append(problems, fmt.Sprintf("%s is required.", field))
		}
		return problems
	}
	if len(trimmed) > 100 {
		return append(problems, fmt.Sprintf("%s must be between 1 and 100 characters.", field))
	}
	return problems
}

func appendOrganizationNameProblems(problems []string, name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return append(problems, "Organization name is required.")
	}
	if len(trimmed) < 2 || len(trimmed) > 255 {
		return append(problems, "Organization name must be between 2 and 255 characters.")
	}
	return problems
}
