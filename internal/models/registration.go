package models

// StatusConfirmed is the only lifecycle state a registration currently has.
const StatusConfirmed = "confirmed"

// Registration is one attendee sign-up, keyed by normalized email.
// Timestamp and CreatedAt are ISO-8601 UTC strings and always equal.
type Registration struct {
	Email          string `json:"email" dynamodbav:"email"`
	RegistrationID string `json:"registration_id" dynamodbav:"registration_id"`
	Name           string `json:"name" dynamodbav:"name"`
	Organization   string `json:"organization" dynamodbav:"organization"`
	Position       string `json:"position" dynamodbav:"position"`
	Phone          string `json:"phone" dynamodbav:"phone"`
	ManagementArea string `json:"management_area" dynamodbav:"management_area"`
	AISession      string `json:"ai_session" dynamodbav:"ai_session"`
	HandsOn        bool   `json:"hands_on" dynamodbav:"hands_on"`
	Timestamp      string `json:"timestamp" dynamodbav:"timestamp"`
	CreatedAt      string `json:"created_at" dynamodbav:"created_at"`
	Status         string `json:"status" dynamodbav:"status"`
}
