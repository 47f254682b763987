package response

// Error codes shared by all handlers
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodePaymentFailed  = "PAYMENT_FAILED"
	ErrCodeUnavailable    = "SERVICE_UNAVAILABLE"
	ErrCodeInternalServer = "INTERNAL_ERROR"
)

// Response is the envelope for every JSON body
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorData struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ListMeta describes a collection response
type ListMeta struct {
	Total int `json:"total"`
}

func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// List wraps a collection with its size
func List(data interface{}, total int) Response {
	return Response{Success: true, Data: data, Meta: ListMeta{Total: total}}
}

func Error(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message},
	}
}

// ValidationError carries per-field messages keyed by JSON field name
func ValidationError(message string, fields map[string]string) Response {
	return Response{
		Success: false,
		Error:   &ErrorData{Code: ErrCodeValidation, Message: message, Fields: fields},
	}
}

func BadRequest(message string) Response {
	return Error(ErrCodeBadRequest, message)
}

func Unauthorized(message string) Response {
	return Error(ErrCodeUnauthorized, message)
}

func Forbidden(message string) Response {
	return Error(ErrCodeForbidden, message)
}

func NotFound(message string) Response {
	return Error(ErrCodeNotFound, message)
}

func InternalError(message string) Response {
	return Error(ErrCodeInternalServer, message)
}

func Unavailable(message string) Response {
	return Error(ErrCodeUnavailable, message)
}
