package xero

import (
	"encoding/json"
	"strings"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

// apiError is the error envelope the accounting API returns for
// rejected requests.
type apiError struct {
	ErrorNumber int    `json:"ErrorNumber"`
	Type        string `json:"Type"`
	Message     string `json:"Message"`
	Elements    []struct {
		ValidationErrors []struct {
			Message string `json:"Message"`
		} `json:"ValidationErrors"`
	} `json:"Elements"`
}

// uniquenessMarkers are the validation messages the destination uses to
// signal a natural-language uniqueness violation. Matching happens here
// at the adapter boundary only; callers branch on the tagged kind.
var uniquenessMarkers = []string{
	"must be unique",
	"name must be unique",
}

// mapAPIError converts a non-2xx response into a tagged sink error.
func mapAPIError(statusCode int, body []byte) error {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ierr.NewError("ledger sink request rejected").
			WithHintf("Sink returned status %d", statusCode).
			WithReportableDetails(map[string]any{"status": statusCode, "body": string(body)}).
			Mark(ierr.ErrSinkUnavailable)
	}

	messages := collectMessages(parsed)
	if isUniquenessViolation(messages) {
		return ierr.NewError("ledger sink uniqueness violation").
			WithHint(strings.Join(messages, "; ")).
			Mark(ierr.ErrSinkConflict)
	}

	return ierr.NewError("ledger sink request rejected").
		WithHintf("Sink returned status %d: %s", statusCode, parsed.Message).
		WithReportableDetails(map[string]any{
			"status":   statusCode,
			"type":     parsed.Type,
			"messages": messages,
		}).
		Mark(ierr.ErrSinkUnavailable)
}

func collectMessages(parsed apiError) []string {
	messages := []string{}
	if parsed.Message != "" {
		messages = append(messages, parsed.Message)
	}
	for _, element := range parsed.Elements {
		for _, validation := range element.ValidationErrors {
			messages = append(messages, validation.Message)
		}
	}
	return messages
}

func isUniquenessViolation(messages []string) bool {
	for _, message := range messages {
		lower := strings.ToLower(message)
		for _, marker := range uniquenessMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}
