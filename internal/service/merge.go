package service

import (
	"strings"
	"time"
)

// Remote fields only replace local values when the remote side actually
// carries data; a blank remote field never erases what we already have.
// Status, stock quantity and money amounts are authoritative upstream and
// bypass these helpers.

func mergeString(local, remote string) string {
	if v := strings.TrimSpace(remote); v != "" {
		return v
	}
	return local
}

func mergePtr(local *string, remote string) *string {
	if v := strings.TrimSpace(remote); v != "" {
		return &v
	}
	return local
}

func mergeTime(local, remote *time.Time) *time.Time {
	if remote != nil && !remote.IsZero() {
		return remote
	}
	return local
}
