package model

// Request はJSON-RPC 2.0リクエスト
type Request struct {
	JSONRPC string `json:"jsonrpc"`          // 常に "2.0"
	ID      any    `json:"id"`               // string | number | null
	Method  string `json:"method"`           // メソッド名
	Params  any    `json:"params,omitempty"` // 任意のオブジェクト、省略可
}

// IsNotification はIDを持たない（または null の）リクエストかを返す
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response はJSON-RPC 2.0レスポンス（成功時）
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result"`
}

// ErrorResponse はJSON-RPC 2.0エラーレスポンス
type ErrorResponse struct {
	JSONRPC string   `json:"jsonrpc"`
	ID      any      `json:"id"` // パース失敗時はnull
	Error   RPCError `json:"error"`
}

// RPCError はJSON-RPC 2.0エラーオブジェクト
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC 2.0 標準エラーコード
const (
	ErrCodeParseError     = -32700 // Invalid JSON
	ErrCodeInvalidRequest = -32600 // Invalid Request
	ErrCodeMethodNotFound = -32601 // Method not found
	ErrCodeInvalidParams  = -32602 // Invalid params
	ErrCodeInternalError  = -32603 // Internal error
)

// MCPのカスタムエラーコード
const (
	ErrCodeResourceNotFound = -32002 // resources/read で未知のURI
)

// NewResponse は成功レスポンスを生成
func NewResponse(id any, result any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse はエラーレスポンスを生成
func NewErrorResponse(id any, code int, message string, data any) *ErrorResponse {
	return &ErrorResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// NewParseError はパースエラーレスポンスを生成（IDはnull）
func NewParseError(data any) *ErrorResponse {
	return NewErrorResponse(nil, ErrCodeParseError, "Parse error", data)
}

// NewInvalidRequest は無効リクエストエラーレスポンスを生成
func NewInvalidRequest(id any, data any) *ErrorResponse {
	return NewErrorResponse(id, ErrCodeInvalidRequest, "Invalid Request", data)
}

// NewMethodNotFound はメソッド未検出エラーレスポンスを生成
func NewMethodNotFound(id any, method string) *ErrorResponse {
	return NewErrorResponse(id, ErrCodeMethodNotFound, "Method not found", method)
}

// NewInvalidParams は無効パラメータエラーレスポンスを生成
func NewInvalidParams(id any, message string) *ErrorResponse {
	return NewErrorResponse(id, ErrCodeInvalidParams, message, nil)
}

// NewInternalError は内部エラーレスポンスを生成
func NewInternalError(id any, message string) *ErrorResponse {
	return NewErrorResponse(id, ErrCodeInternalError, message, nil)
}

// NewResourceNotFound は未知のリソースURIに対するエラーレスポンスを生成
func NewResourceNotFound(id any, uri string) *ErrorResponse {
	return NewErrorResponse(id, ErrCodeResourceNotFound, "Resource not found", map[string]any{"uri": uri})
}
