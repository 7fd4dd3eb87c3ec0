package services

import (
	"errors"
	"time"
)

var eventDateFormats = []string{time.RFC3339, "2006-01-02"}

func parseEventDate(value string) (*time.Time, error) {
	for _, format := range eventDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("date must be RFC 3339 or YYYY-MM-DD")
}
