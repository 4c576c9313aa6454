package tools

import (
	"regexp"
	"time"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// CheckPassword returns the name of the failing field, or "" when valid.
func CheckPassword(password string) string {
	if utf8.RuneCountInString(password) < 8 {
		return "password"
	}
	return ""
}

// ValidateDate checks the YYYY-MM-DD layout used by events and settings.
func ValidateDate(date string) bool {
	if !dateRe.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
