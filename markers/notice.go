package markers

import "fmt"

// NoticeKind is the closed set of user-facing notification categories.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short-lived status message produced by a marker operation.
// Display layers auto-dismiss these; nothing is persisted.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// IsZero reports whether the operation produced no notification.
func (n Notice) IsZero() bool {
	return n.Message == ""
}

func notice(kind NoticeKind, format string, args ...interface{}) Notice {
	return Notice{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func infof(format string, args ...interface{}) Notice {
	return notice(NoticeInfo, format, args...)
}

func successf(format string, args ...interface{}) Notice {
	return notice(NoticeSuccess, format, args...)
}

func errorf(format string, args ...interface{}) Notice {
	return notice(NoticeError, format, args...)
}
