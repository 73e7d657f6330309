// Package listingsv1 はキオスク画面向けの出品一覧サービスのメッセージと
// Connect のハンドラー/クライアントを定義します。
// メッセージは JSON コーデックでやり取りします。
package listingsv1

// Listing は画面に表示する出品1件です
type Listing struct {
	ID                  string `json:"id"`
	ArtworkID           string `json:"artwork_id,omitempty"`
	Title               string `json:"title,omitempty"`
	ArtistSortKey       string `json:"artist_sort_key,omitempty"`
	LotNumber           *int64 `json:"lot_number,omitempty"`
	BidCount            *int64 `json:"bid_count,omitempty"`
	HighestBidCents     *int64 `json:"highest_bid_cents,omitempty"`
	OpeningBidCents     *int64 `json:"opening_bid_cents,omitempty"`
	MinimumNextBidCents *int64 `json:"minimum_next_bid_cents,omitempty"`
	ReserveStatus       string `json:"reserve_status,omitempty"`
}

type GetListingsRequest struct{}

type WatchListingsRequest struct{}

// ListingsResponse は並べ替え済みの一覧と表示状態です
type ListingsResponse struct {
	Seq         uint64     `json:"seq"`
	SortMode    string     `json:"sort_mode"`
	Layout      string     `json:"layout"`
	HasListings bool       `json:"has_listings"`
	Listings    []*Listing `json:"listings"`
}

type SetSortModeRequest struct {
	SortMode string `json:"sort_mode"`
}

type SetSortModeResponse struct {
	SortMode string `json:"sort_mode"`
	Layout   string `json:"layout"`
}

type ListSortModesRequest struct{}

// SortModeOption はスイッチに表示する選択肢1つ分です
type SortModeOption struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

type ListSortModesResponse struct {
	Modes []*SortModeOption `json:"modes"`
}

// ReportScreenStateRequest は画面側の表示状態です
type ReportScreenStateRequest struct {
	Visible        bool `json:"visible"`
	ModalPresented bool `json:"modal_presented"`
	ForceSync      bool `json:"force_sync"`
}

type ReportScreenStateResponse struct {
	ShouldSync bool `json:"should_sync"`
}
