package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/brbranch/memos_mcp/internal/memos"
)

// memoService はMemoServiceの実装
type memoService struct {
	client MemoClient
}

// NewMemoService は新しいMemoServiceを生成
func NewMemoService(client MemoClient) MemoService {
	return &memoService{client: client}
}

// CreateMemo は POST /api/v1/memos を1回だけ実行する
// 重複排除は行わないため、同じ呼び出しを繰り返すとメモも重複する
func (s *memoService) CreateMemo(ctx context.Context, content, visibility string) Result {
	logger := zerolog.Ctx(ctx)

	memo, err := s.client.CreateMemo(ctx, content, visibility)
	if err != nil {
		var apiErr *memos.APIError
		if errors.As(err, &apiErr) {
			logger.Warn().Int("status", apiErr.StatusCode).Msg("create memo rejected")
			return Err(fmt.Sprintf(msgCreateFailed, apiErr.StatusCode))
		}
		logger.Warn().Err(err).Msg("create memo failed")
		return Err(fmt.Sprintf(msgCreateError, err.Error()))
	}

	id := memoID(memo)
	logger.Info().Str("memo_id", id).Msg("memo created")
	return OK(fmt.Sprintf(msgCreated, id))
}

// RecentMemos は GET /api/v1/memos?limit=N を1回だけ実行する
// 失敗時の詳細は返さずログにのみ残す
func (s *memoService) RecentMemos(ctx context.Context, limit int) Result {
	logger := zerolog.Ctx(ctx)

	list, err := s.client.ListMemos(ctx, limit)
	if err != nil {
		var apiErr *memos.APIError
		if errors.As(err, &apiErr) {
			logger.Warn().Int("status", apiErr.StatusCode).Msg("list memos rejected")
			return Err(msgListFailed)
		}
		logger.Warn().Err(err).Msg("list memos failed")
		return Err(msgListError)
	}

	if len(list) == 0 {
		return OK(msgNoMemos)
	}

	lines := make([]string, 0, len(list))
	for _, memo := range list {
		lines = append(lines, formatLine(memo))
	}
	logger.Debug().Int("count", len(list)).Msg("memos listed")
	return OK(strings.Join(lines, "\n"))
}

// RecentResource は固定件数で RecentMemos に委譲する
func (s *memoService) RecentResource(ctx context.Context) Result {
	return s.RecentMemos(ctx, ResourceRecentLimit)
}

// formatLine は "- [<id>]: <本文の先頭100文字>" を返す
func formatLine(memo memos.Memo) string {
	return fmt.Sprintf("- [%s]: %s", memoID(memo), truncateRunes(memo.Content(), ContentPreviewRunes))
}

func memoID(memo memos.Memo) string {
	if id, ok := memo.ID(); ok {
		return id
	}
	return unknownID
}

// truncateRunes は先頭max文字（バイトではなくrune単位）を返す
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
