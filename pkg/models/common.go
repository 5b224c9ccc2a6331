package models

import (
	"fmt"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID string
func NewUUID() string {
	return uuid.New().String()
}

// RaceLabel renders a season/event pair the way logs and events name races.
func RaceLabel(season int, event string) string {
	return fmt.Sprintf("%d %s", season, event)
}
