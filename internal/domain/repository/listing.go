package repository

import (
	"context"

	"jo3qma.com/kiosk_listings/internal/domain/model"
)

// ListingRepository はオークション出品一覧の1ページ分の取得方法を抽象化します。
// 取得元がJSON APIなのか、HTMLのスクレイピングなのかはドメイン層は知りません。
type ListingRepository interface {
	// FetchPage は指定されたオークションの出品一覧を1ページ取得します
	// page は 1 始まりのページ番号、size は1ページあたりの件数です
	FetchPage(ctx context.Context, auctionID string, page, size int) ([]*model.Listing, error)
}
