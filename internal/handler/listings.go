package handler

import (
	"context"

	"connectrpc.com/connect"
	"jo3qma.com/kiosk_listings/internal/api/listingsv1"
	"jo3qma.com/kiosk_listings/internal/domain/model"
	"jo3qma.com/kiosk_listings/internal/usecase"
)

// ListingsEngine はハンドラーから見た同期エンジンです
type ListingsEngine interface {
	Snapshot(mode model.SortMode) (uint64, []model.Listing)
	SortMode() model.SortMode
	SetSortMode(mode model.SortMode) error
	Subscribe(fn func(usecase.Update)) (cancel func())
}

// ScreenReporter は画面の表示状態を受け取り、同期してよいかを判定します
type ScreenReporter interface {
	Report(visible, modalPresented, forceSync bool)
	ShouldSync() bool
}

// ListingsHandler はConnectのハンドラー実装です
// プロトコル層（listingsv1）とドメイン層（usecase）を橋渡しします
type ListingsHandler struct {
	engine ListingsEngine
	screen ScreenReporter
}

var _ listingsv1.ListingsServiceHandler = (*ListingsHandler)(nil)

// NewListingsHandler は新しいListingsHandlerインスタンスを作成します
func NewListingsHandler(engine ListingsEngine, screen ScreenReporter) *ListingsHandler {
	return &ListingsHandler{
		engine: engine,
		screen: screen,
	}
}

// GetListings は現在の並び順で並べ替えた一覧を返すRPCハンドラーです
func (h *ListingsHandler) GetListings(
	ctx context.Context,
	req *connect.Request[listingsv1.GetListingsRequest],
) (*connect.Response[listingsv1.ListingsResponse], error) {
	mode := h.engine.SortMode()
	seq, listings := h.engine.Snapshot(mode)

	resp := &listingsv1.ListingsResponse{
		Seq:         seq,
		SortMode:    mode.Key(),
		Layout:      mode.Layout().String(),
		HasListings: len(listings) > 0,
		Listings:    make([]*listingsv1.Listing, 0, len(listings)),
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toProtoListing(&listings[i]))
	}

	return connect.NewResponse(resp), nil
}

// WatchListings は一覧が更新されるたびに最新の状態を送り続けるRPCハンドラーです
// 送信が追いつかない場合は古い状態を捨て、最新の状態だけを送ります
func (h *ListingsHandler) WatchListings(
	ctx context.Context,
	req *connect.Request[listingsv1.WatchListingsRequest],
	stream *connect.ServerStream[listingsv1.ListingsResponse],
) error {
	latest := make(chan *listingsv1.ListingsResponse, 1)

	// コールバックはエンジンのループ上で呼ばれるので、ここで値をコピーしておく
	cancel := h.engine.Subscribe(func(u usecase.Update) {
		resp := toResponse(u)
		select {
		case latest <- resp:
		default:
			select {
			case <-latest:
			default:
			}
			latest <- resp
		}
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case resp := <-latest:
			if err := stream.Send(resp); err != nil {
				return err
			}
		}
	}
}

// SetSortMode は並び順を変更するRPCハンドラーです
func (h *ListingsHandler) SetSortMode(
	ctx context.Context,
	req *connect.Request[listingsv1.SetSortModeRequest],
) (*connect.Response[listingsv1.SetSortModeResponse], error) {
	mode, err := model.ParseSortMode(req.Msg.SortMode)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := h.engine.SetSortMode(mode); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return connect.NewResponse(&listingsv1.SetSortModeResponse{
		SortMode: mode.Key(),
		Layout:   mode.Layout().String(),
	}), nil
}

// ListSortModes はスイッチに表示する並び順の一覧を返すRPCハンドラーです
func (h *ListingsHandler) ListSortModes(
	ctx context.Context,
	req *connect.Request[listingsv1.ListSortModesRequest],
) (*connect.Response[listingsv1.ListSortModesResponse], error) {
	modes := model.AllSortModes()
	resp := &listingsv1.ListSortModesResponse{
		Modes: make([]*listingsv1.SortModeOption, 0, len(modes)),
	}
	for _, m := range modes {
		resp.Modes = append(resp.Modes, &listingsv1.SortModeOption{
			Key:    m.Key(),
			Name:   m.Name(),
			Layout: m.Layout().String(),
		})
	}
	return connect.NewResponse(resp), nil
}

// ReportScreenState は画面側から表示状態を受け取るRPCハンドラーです
func (h *ListingsHandler) ReportScreenState(
	ctx context.Context,
	req *connect.Request[listingsv1.ReportScreenStateRequest],
) (*connect.Response[listingsv1.ReportScreenStateResponse], error) {
	h.screen.Report(req.Msg.Visible, req.Msg.ModalPresented, req.Msg.ForceSync)

	return connect.NewResponse(&listingsv1.ReportScreenStateResponse{
		ShouldSync: h.screen.ShouldSync(),
	}), nil
}

// toResponse はエンジンの通知をレスポンスに変換します
func toResponse(u usecase.Update) *listingsv1.ListingsResponse {
	resp := &listingsv1.ListingsResponse{
		Seq:         u.Seq,
		SortMode:    u.Mode.Key(),
		Layout:      u.Layout.String(),
		HasListings: u.HasListings,
		Listings:    make([]*listingsv1.Listing, 0, len(u.Listings)),
	}
	for _, l := range u.Listings {
		c := l.Clone()
		resp.Listings = append(resp.Listings, toProtoListing(&c))
	}
	return resp
}

func toProtoListing(l *model.Listing) *listingsv1.Listing {
	return &listingsv1.Listing{
		ID:                  l.ID,
		ArtworkID:           l.ArtworkID,
		Title:               l.Title,
		ArtistSortKey:       l.ArtistSortKey,
		LotNumber:           l.LotNumber,
		BidCount:            l.BidCount,
		HighestBidCents:     l.HighestBidCents,
		OpeningBidCents:     l.OpeningBidCents,
		MinimumNextBidCents: l.MinimumNextBidCents,
		ReserveStatus:       l.ReserveStatus,
	}
}
