package redisx

import "time"

const (
	// Stream entries carry the raw message in this field.
	FieldBody = "body"

	// Redis error returned by XGROUP CREATE when the group already exists.
	errBusyGroup = "BUSYGROUP Consumer Group name already exists"
)

var (
	DefaultVisibilityTimeout = 30 * time.Second
)
