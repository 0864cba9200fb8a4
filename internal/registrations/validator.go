package registrations

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RegisterRequest is the body for POST registrations. Only name and email are required.
type RegisterRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Organization   string   `json:"organization"`
	Position       string   `json:"position"`
	Phone          string   `json:"phone"`
	ManagementArea string   `json:"management_area"`
	AISession      string   `json:"ai_session"`
	HandsOn        FlexBool `json:"hands_on"`
}

// FlexBool accepts a JSON bool, a number (non-zero is true), or the checkbox strings a
// browser form posts ("sim", "on", "true", "1"). null is false.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*b = false
	case bool:
		*b = FlexBool(t)
	case float64:
		*b = t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "sim", "on", "true", "yes", "1":
			*b = true
		default:
			*b = false
		}
	default:
		return fmt.Errorf("cannot use %s as a checkbox value", data)
	}
	return nil
}

// requiredFields is checked in order; the first failure is reported.
var requiredFields = []struct {
	name string
	get  func(*RegisterRequest) string
}{
	{"name", func(r *RegisterRequest) string { return r.Name }},
	{"email", func(r *RegisterRequest) string { return r.Email }},
}

// Validate trims every string field, checks required fields, and lower-cases the email.
// The email check is deliberately weak: it only needs an '@' and a '.'.
func Validate(req *RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = NormalizeEmail(req.Email)
	req.Organization = strings.TrimSpace(req.Organization)
	req.Position = strings.TrimSpace(req.Position)
	req.Phone = strings.TrimSpace(req.Phone)
	req.ManagementArea = strings.TrimSpace(req.ManagementArea)
	req.AISession = strings.TrimSpace(req.AISession)

	for _, f := range requiredFields {
		if f.get(req) == "" {
			return &FieldError{Field: f.name}
		}
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
