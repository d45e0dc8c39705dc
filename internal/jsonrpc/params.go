package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/brbranch/memos_mcp/internal/service"
)

// CreateMemoParams は create_memo のパラメータ
type CreateMemoParams struct {
	Content    *string `json:"content"`
	Visibility *string `json:"visibility"`
}

// Validate はcontentの有無のみ確認し、visibilityのデフォルトを補う
// contentの中身やvisibilityの値はリモート側が判断する
func (p *CreateMemoParams) Validate() (content, visibility string, err error) {
	if p.Content == nil {
		return "", "", fmt.Errorf("%w: content is required", errInvalidParams)
	}
	visibility = service.DefaultVisibility
	if p.Visibility != nil {
		visibility = *p.Visibility
	}
	return *p.Content, visibility, nil
}

// RecentMemosParams は get_recent_memos のパラメータ
type RecentMemosParams struct {
	Limit *int `json:"limit"`
}

// LimitOrDefault はlimitを返す（未指定なら5）
// 上限はリモート側に任せる
func (p *RecentMemosParams) LimitOrDefault() int {
	if p.Limit == nil {
		return service.DefaultRecentLimit
	}
	return *p.Limit
}

// mapParams はanyをターゲット構造体にマッピング
// 型が合わない場合は errInvalidParams でラップして返す
func mapParams(params any, target any) error {
	if params == nil {
		return nil
	}

	// anyをJSONに変換してから構造体にアンマーシャル
	b, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}
