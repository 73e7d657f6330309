package usecase

import (
	"context"
	"errors"
	"fmt"

	"jo3qma.com/kiosk_listings/internal/domain/model"
	"jo3qma.com/kiosk_listings/internal/domain/repository"
)

// ErrInvalidPageSize はページサイズが1未満の場合のエラーです
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// FetchAllPages はページ1から順に出品一覧を取得し、1つのスナップショットに連結します
// 返されたページの件数が pageSize 未満になった時点で取得を終了します。
// いずれかのページの取得に失敗した場合は途中までの結果を返さず、エラーのみを返します。
func FetchAllPages(ctx context.Context, repo repository.ListingRepository, auctionID string, pageSize int) (model.Snapshot, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}

	snapshot := model.Snapshot{}
	for page := 1; ; page++ {
		listings, err := repo.FetchPage(ctx, auctionID, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		snapshot = append(snapshot, listings...)
		if len(listings) < pageSize {
			return snapshot, nil
		}
	}
}
