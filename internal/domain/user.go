package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// User represents a registered account and its favorite movies.
type User struct {
	ID             string   `json:"_id"`
	Username       string   `json:"Username"`
	PasswordHash   string   `json:"-"`
	Email          string   `json:"Email"`
	Birthday       Date     `json:"Birthday"`
	FavoriteMovies []string `json:"FavoriteMovies"`
}

// UserInput is the payload accepted by registration and profile updates.
type UserInput struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
	Birthday Date   `json:"Birthday"`
}

// UserUpdate holds the fields replaced by a profile update.
type UserUpdate struct {
	Username     string
	PasswordHash string
	Email        string
	Birthday     Date
}

const dateLayout = "2006-01-02"

// Date is a calendar day. It accepts YYYY-MM-DD or RFC 3339 input and
// always renders as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a day in either accepted layout.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
