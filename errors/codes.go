package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED        ErrorCode = 0
	ErrorCode_HTTP_OK            ErrorCode = 200
	ErrorCode_INTERNAL           ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT   ErrorCode = 1001
	ErrorCode_NOT_FOUND          ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS     ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED  ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED    ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD    ErrorCode = 1006
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2001
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2002
	ErrorCode_INVALID_TRANSITION ErrorCode = 3001
	ErrorCode_MEETING_CLOSED     ErrorCode = 3002
	ErrorCode_STORAGE_FAILED     ErrorCode = 4001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:        "UNSPECIFIED",
	ErrorCode_HTTP_OK:            "HTTP_OK",
	ErrorCode_INTERNAL:           "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:   "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:          "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:     "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:  "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:    "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:    "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN: "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED: "AUTH_TOKEN_EXPIRED",
	ErrorCode_INVALID_TRANSITION: "INVALID_TRANSITION",
	ErrorCode_MEETING_CLOSED:     "MEETING_CLOSED",
	ErrorCode_STORAGE_FAILED:     "STORAGE_FAILED",
}

// String returns the code's name
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}

// MarshalText renders the code by name in JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
