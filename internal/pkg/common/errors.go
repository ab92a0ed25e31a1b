package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`    // 錯誤代碼
	Message string `json:"message"` // 錯誤信息
	Detail  string `json:"detail"`  // message 加上原始錯誤，例如上游訊息或解析錯誤
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 返回原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，使 errors.Is(err, ErrNotFound) 成立
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Response 轉換為 API 錯誤響應，detail 保留原始錯誤
func (e *CustomError) Response() ErrorResponse {
	detail := e.Message
	if e.Err != nil && e.Err.Error() != e.Message {
		detail = e.Error()
	}
	return ErrorResponse{Code: e.Code, Message: e.Message, Detail: detail}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST" // 400
	ErrCodeNotFound        = "NOT_FOUND"       // 404
	ErrCodeBodyTooLarge    = "BODY_TOO_LARGE"  // 413
	ErrCodeTooManyRequests = "RATE_LIMITED"    // 429
	ErrCodeInternalError   = "INTERNAL_ERROR"  // 500
	ErrCodeConfig          = "CONFIG_ERROR"    // 500
	ErrCodeAuth            = "AUTH_ERROR"      // 500
	ErrCodeParse           = "PARSE_ERROR"     // 500
	ErrCodeUpstream        = "UPSTREAM_ERROR"  // 502
	ErrCodeTimeout         = "REQUEST_TIMEOUT" // 504
)

// 預定義錯誤，用於 errors.Is 分類
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "not found", http.StatusNotFound, nil)
	ErrBodyTooLarge    = NewError(ErrCodeBodyTooLarge, "request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError   = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrConfig          = NewError(ErrCodeConfig, "configuration error", http.StatusInternalServerError, nil)
	ErrAuth            = NewError(ErrCodeAuth, "upstream rejected credential", http.StatusInternalServerError, nil)
	ErrParse           = NewError(ErrCodeParse, "parse error", http.StatusInternalServerError, nil)
	ErrUpstream        = NewError(ErrCodeUpstream, "upstream error", http.StatusBadGateway, nil)
	ErrTimeout         = NewError(ErrCodeTimeout, "request timeout", http.StatusGatewayTimeout, nil)
)

// NewValidationError 創建請求驗證錯誤
func NewValidationError(message string) *CustomError {
	return NewError(ErrCodeInvalidRequest, message, http.StatusBadRequest, nil)
}

// NewConfigError 缺少必要憑證或設定
func NewConfigError(message string) *CustomError {
	return NewError(ErrCodeConfig, message, http.StatusInternalServerError, nil)
}

// NewAuthError 上游拒絕已設定的憑證
func NewAuthError(message string) *CustomError {
	return NewError(ErrCodeAuth, message, http.StatusInternalServerError, nil)
}

// NewNotFoundError 查無資料
func NewNotFoundError(message string) *CustomError {
	return NewError(ErrCodeNotFound, message, http.StatusNotFound, nil)
}

// NewUpstreamError 其他上游網路或 HTTP 失敗
func NewUpstreamError(message string, err error) *CustomError {
	return NewError(ErrCodeUpstream, message, http.StatusBadGateway, err)
}

// NewParseError 生成內容不是合法的 JSON
func NewParseError(message string, err error) *CustomError {
	return NewError(ErrCodeParse, message, http.StatusInternalServerError, err)
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ToCustomError 未分類的錯誤一律視為內部錯誤
func ToCustomError(err error) *CustomError {
	if ce, ok := AsCustomError(err); ok {
		return ce
	}
	return NewError(ErrCodeInternalError, err.Error(), http.StatusInternalServerError, err)
}
