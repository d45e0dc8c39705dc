package memos

import (
	"encoding/json"
	"fmt"
)

// Memo はリモートMemos APIが返すメモの表現
// APIのバージョンによってフィールドが異なるため、型付けせずmapのまま扱う
type Memo map[string]any

// idFields は識別子として参照するフィールド（優先順）
var idFields = []string{"name", "id"}

// ID は識別子を返す
// "name" → "id" の順に探し、空文字やゼロでない最初の値を採用する
func (m Memo) ID() (string, bool) {
	for _, field := range idFields {
		if id, ok := stringValue(m[field]); ok {
			return id, true
		}
	}
	return "", false
}

// Content はメモ本文を返す（文字列以外は空文字）
func (m Memo) Content() string {
	s, _ := m["content"].(string)
	return s
}

// Visibility は公開範囲を返す
func (m Memo) Visibility() string {
	s, _ := m["visibility"].(string)
	return s
}

// stringValue はJSON値を識別子として使える文字列に変換する
// 数値はUseNumberでデコードされている前提で、表記をそのまま使う
func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return "", false
		}
		return val.String(), true
	case float64:
		if val == 0 {
			return "", false
		}
		return fmt.Sprintf("%v", val), true
	default:
		return "", false
	}
}
