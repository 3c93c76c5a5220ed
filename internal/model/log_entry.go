package model

import (
	"time"
)

// FreeKeySentinel replaces the auth key on free tier log entries.
const FreeKeySentinel = "Free"

// FreeCompany is the company recorded for ungated usage.
const FreeCompany = "Free User"

// AnonymousEmail is recorded when the caller supplied no email.
const AnonymousEmail = "anonymous"

// LogEntry is one append-only usage record. Entries expire after the
// retention window and are written best-effort off the critical path.
type LogEntry struct {
	ID             string    `json:"id"`
	AuthKey        string    `json:"authKey"`
	Email          string    `json:"email"`
	Company        string    `json:"company"`
	Timestamp      time.Time `json:"timestamp"`
	LocalTime      string    `json:"localTime"`
	ClientIP       string    `json:"clientIP"`
	UserAgent      string    `json:"userAgent"`
	OS             string    `json:"os"`
	Browser        string    `json:"browser"`
	Origin         string    `json:"origin"`
	Model          string    `json:"model"`
	Command        string    `json:"command"`
	Action         string    `json:"action"`
	SheetOperation string    `json:"sheetOperation"`
	IsFreeUser     bool      `json:"isFreeUser"`
}

type LogListResponse struct {
	Logs  []LogEntry `json:"logs"`
	Total int        `json:"total"`
}
