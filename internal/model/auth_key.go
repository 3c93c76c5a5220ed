package model

import (
	"time"
)

// AuthKey is an opaque bearer token issued to a customer company.
// Keys are never deleted, only deactivated.
type AuthKey struct {
	ID         string     `json:"key"`
	Company    string     `json:"company"`
	Memo       string     `json:"memo,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  string     `json:"createdBy"`
	IsActive   bool       `json:"isActive"`
	UsageCount int64      `json:"usageCount"`
	LastUsed   *time.Time `json:"lastUsed,omitempty"`
}

type AuthKeyCreateRequest struct {
	Company string `binding:"required" json:"company"`
	Memo    string `json:"memo,omitempty"`
}

type AuthKeyDeactivateRequest struct {
	Key string `binding:"required" json:"key"`
}

type AuthKeyListResponse struct {
	Keys []AuthKey `json:"keys"`
}
