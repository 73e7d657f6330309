package listingsv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ListingsServiceName はサービスの完全修飾名です
const ListingsServiceName = "kiosk.listings.v1.ListingsService"

const (
	ListingsServiceGetListingsProcedure       = "/kiosk.listings.v1.ListingsService/GetListings"
	ListingsServiceWatchListingsProcedure     = "/kiosk.listings.v1.ListingsService/WatchListings"
	ListingsServiceSetSortModeProcedure       = "/kiosk.listings.v1.ListingsService/SetSortMode"
	ListingsServiceListSortModesProcedure     = "/kiosk.listings.v1.ListingsService/ListSortModes"
	ListingsServiceReportScreenStateProcedure = "/kiosk.listings.v1.ListingsService/ReportScreenState"
)

// ListingsServiceHandler はサービスのサーバー側実装です
type ListingsServiceHandler interface {
	GetListings(context.Context, *connect.Request[GetListingsRequest]) (*connect.Response[ListingsResponse], error)
	WatchListings(context.Context, *connect.Request[WatchListingsRequest], *connect.ServerStream[ListingsResponse]) error
	SetSortMode(context.Context, *connect.Request[SetSortModeRequest]) (*connect.Response[SetSortModeResponse], error)
	ListSortModes(context.Context, *connect.Request[ListSortModesRequest]) (*connect.Response[ListSortModesResponse], error)
	ReportScreenState(context.Context, *connect.Request[ReportScreenStateRequest]) (*connect.Response[ReportScreenStateResponse], error)
}

// NewListingsServiceHandler はサービスのHTTPハンドラーとマウントするパスを返します
func NewListingsServiceHandler(svc ListingsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	getListings := connect.NewUnaryHandler(ListingsServiceGetListingsProcedure, svc.GetListings, opts...)
	watchListings := connect.NewServerStreamHandler(ListingsServiceWatchListingsProcedure, svc.WatchListings, opts...)
	setSortMode := connect.NewUnaryHandler(ListingsServiceSetSortModeProcedure, svc.SetSortMode, opts...)
	listSortModes := connect.NewUnaryHandler(ListingsServiceListSortModesProcedure, svc.ListSortModes, opts...)
	reportScreenState := connect.NewUnaryHandler(ListingsServiceReportScreenStateProcedure, svc.ReportScreenState, opts...)

	return "/" + ListingsServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ListingsServiceGetListingsProcedure:
			getListings.ServeHTTP(w, r)
		case ListingsServiceWatchListingsProcedure:
			watchListings.ServeHTTP(w, r)
		case ListingsServiceSetSortModeProcedure:
			setSortMode.ServeHTTP(w, r)
		case ListingsServiceListSortModesProcedure:
			listSortModes.ServeHTTP(w, r)
		case ListingsServiceReportScreenStateProcedure:
			reportScreenState.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ListingsServiceClient はサービスのクライアントです
type ListingsServiceClient struct {
	getListings       *connect.Client[GetListingsRequest, ListingsResponse]
	watchListings     *connect.Client[WatchListingsRequest, ListingsResponse]
	setSortMode       *connect.Client[SetSortModeRequest, SetSortModeResponse]
	listSortModes     *connect.Client[ListSortModesRequest, ListSortModesResponse]
	reportScreenState *connect.Client[ReportScreenStateRequest, ReportScreenStateResponse]
}

// NewListingsServiceClient は baseURL（例: http://localhost:8080）に接続するクライアントを作成します
func NewListingsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ListingsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &ListingsServiceClient{
		getListings:       connect.NewClient[GetListingsRequest, ListingsResponse](httpClient, baseURL+ListingsServiceGetListingsProcedure, opts...),
		watchListings:     connect.NewClient[WatchListingsRequest, ListingsResponse](httpClient, baseURL+ListingsServiceWatchListingsProcedure, opts...),
		setSortMode:       connect.NewClient[SetSortModeRequest, SetSortModeResponse](httpClient, baseURL+ListingsServiceSetSortModeProcedure, opts...),
		listSortModes:     connect.NewClient[ListSortModesRequest, ListSortModesResponse](httpClient, baseURL+ListingsServiceListSortModesProcedure, opts...),
		reportScreenState: connect.NewClient[ReportScreenStateRequest, ReportScreenStateResponse](httpClient, baseURL+ListingsServiceReportScreenStateProcedure, opts...),
	}
}

func (c *ListingsServiceClient) GetListings(ctx context.Context, req *connect.Request[GetListingsRequest]) (*connect.Response[ListingsResponse], error) {
	return c.getListings.CallUnary(ctx, req)
}

func (c *ListingsServiceClient) WatchListings(ctx context.Context, req *connect.Request[WatchListingsRequest]) (*connect.ServerStreamForClient[ListingsResponse], error) {
	return c.watchListings.CallServerStream(ctx, req)
}

func (c *ListingsServiceClient) SetSortMode(ctx context.Context, req *connect.Request[SetSortModeRequest]) (*connect.Response[SetSortModeResponse], error) {
	return c.setSortMode.CallUnary(ctx, req)
}

func (c *ListingsServiceClient) ListSortModes(ctx context.Context, req *connect.Request[ListSortModesRequest]) (*connect.Response[ListSortModesResponse], error) {
	return c.listSortModes.CallUnary(ctx, req)
}

func (c *ListingsServiceClient) ReportScreenState(ctx context.Context, req *connect.Request[ReportScreenStateRequest]) (*connect.Response[ReportScreenStateResponse], error) {
	return c.reportScreenState.CallUnary(ctx, req)
}
