package response

// Response represents a standard API response format
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success returns a standard success response wrapping the data
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// SuccessWithMessage is Success plus a human readable message
func SuccessWithMessage(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Error returns a standard error response wrapping the error code and message
func Error(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	}
}

// Page wraps a slice with its pagination metadata
type Page struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// NewPage computes TotalPages from total and limit
func NewPage(items interface{}, page, limit int, total int64) Page {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page{Items: items, Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
