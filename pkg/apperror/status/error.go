package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   0-999:     client/validation errors
//   1000-1999: search pipeline
//   2000-2999: chat / answer generation

const (
	BadRequestBase    ErrorCode = 0
	InternalErrorBase ErrorCode = 1000
	ChatErrorBase     ErrorCode = 2000
)

// Client/validation errors start at 0
const (
	SearchInvalidRequestBody ErrorCode = BadRequestBase + iota // 0
	SearchMissingParams                                        // 1
	SearchInvalidDateRange                                     // 2
)

// Search pipeline internal errors start at 1000
const (
	SearchInternal        ErrorCode = InternalErrorBase + iota // 1000
	SearchEmbeddingFailed                                      // 1001
	SearchIndexFailed                                          // 1002
)

// Chat internal errors start at 2000
const (
	ChatInternal         ErrorCode = ChatErrorBase + iota // 2000
	ChatGenerationFailed                                  // 2001
	ChatPersistFailed                                     // 2002
)

// Deprecated: prefer domain-specific internal codes above
const (
	ErrorCodeInternal ErrorCode = 9000
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}
