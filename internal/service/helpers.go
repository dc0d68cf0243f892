package service

import "time"

// formatTimestamp 审计时间统一输出格式（RFC 3339）
func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
