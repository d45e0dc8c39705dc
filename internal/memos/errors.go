package memos

import (
	"errors"
	"fmt"
)

// エラー定義
var (
	ErrRequestFailed    = errors.New("memos request failed")
	ErrAPIRequestFailed = errors.New("memos API returned an error status")
	ErrInvalidResponse  = errors.New("invalid memos API response")
)

// APIError はHTTP 200以外のステータスを保持
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("memos API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPIRequestFailed
}
