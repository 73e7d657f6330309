package kioskapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"jo3qma.com/kiosk_listings/internal/domain/model"
	"jo3qma.com/kiosk_listings/internal/domain/repository"
)

const tracerName = "jo3qma.com/kiosk_listings/internal/infrastructure/kioskapi"

// Options はJSON APIクライアントの設定です
type Options struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64 // 0以下の場合はレート制限なし
	MaxTries          uint    // 一時的なエラーに対する最大試行回数（1以上）
	Timeout           time.Duration
	InitialBackoff    time.Duration
}

// listingsClient はオークションの出品一覧をJSON APIから取得する実装です
// 腐敗防止層として、APIのJSON構造をドメインモデルに変換する責務を持ちます
type listingsClient struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
	tracer  trace.Tracer
}

// NewListingsClient は新しいListingRepositoryの実装を作成します
func NewListingsClient(opts Options) repository.ListingRepository {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return newListingsClient(&http.Client{Timeout: timeout}, opts)
}

// newListingsClient はテスト容易性のための内部コンストラクタです。
func newListingsClient(client *http.Client, opts Options) *listingsClient {
	if opts.MaxTries == 0 {
		opts.MaxTries = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &listingsClient{
		client:  client,
		opts:    opts,
		limiter: limiter,
		tracer:  otel.Tracer(tracerName),
	}
}

// rawListing はAPIが返す出品1件分のJSON構造体です
type rawListing struct {
	ID                    string `json:"id"`
	LotNumber             *int64 `json:"lot_number"`
	BidderPositionsCount  *int64 `json:"bidder_positions_count"`
	HighestBidAmountCents *int64 `json:"highest_bid_amount_cents"`
	OpeningBidCents       *int64 `json:"opening_bid_cents"`
	MinimumNextBidCents   *int64 `json:"minimum_next_bid_cents"`
	ReserveStatus         string `json:"reserve_status"`
	Artwork               struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Artist struct {
			SortableID string `json:"sortable_id"`
		} `json:"artist"`
	} `json:"artwork"`
}

// FetchPage は指定されたオークションの出品一覧を1ページ取得します
func (c *listingsClient) FetchPage(ctx context.Context, auctionID string, page, size int) ([]*model.Listing, error) {
	ctx, span := c.tracer.Start(ctx, "kioskapi.FetchPage",
		trace.WithAttributes(
			attribute.String("auction.id", auctionID),
			attribute.Int("page.number", page),
			attribute.Int("page.size", size),
		),
	)
	defer span.End()

	targetURL, err := c.pageURL(auctionID, page, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.InitialBackoff

	raws, err := backoff.Retry(ctx, func() ([]rawListing, error) {
		return c.get(ctx, targetURL)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.opts.MaxTries))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	listings := make([]*model.Listing, 0, len(raws))
	for _, raw := range raws {
		listings = append(listings, toListing(raw))
	}
	span.SetAttributes(attribute.Int("page.count", len(listings)))
	return listings, nil
}

func (c *listingsClient) pageURL(auctionID string, page, size int) (string, error) {
	u, err := url.Parse(fmt.Sprintf("%s/auctions/%s/listings", c.opts.BaseURL, url.PathEscape(auctionID)))
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get は1回分のリクエストを行います
// 再試行しても結果が変わらないエラーは backoff.Permanent で包んで返します
func (c *listingsClient) get(ctx context.Context, targetURL string) ([]rawListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	res, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		statusErr := &StatusError{StatusCode: res.StatusCode}
		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var raws []rawListing
	if err := json.NewDecoder(res.Body).Decode(&raws); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode listings: %w", err))
	}
	return raws, nil
}

// StatusError は2xx以外のレスポンスを表します
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch listings: status %d", e.StatusCode)
}

func toListing(raw rawListing) *model.Listing {
	return &model.Listing{
		ID:                  raw.ID,
		ArtworkID:           raw.Artwork.ID,
		Title:               raw.Artwork.Title,
		ArtistSortKey:       raw.Artwork.Artist.SortableID,
		LotNumber:           raw.LotNumber,
		BidCount:            raw.BidderPositionsCount,
		HighestBidCents:     raw.HighestBidAmountCents,
		OpeningBidCents:     raw.OpeningBidCents,
		MinimumNextBidCents: raw.MinimumNextBidCents,
		ReserveStatus:       raw.ReserveStatus,
	}
}
