package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"jo3qma.com/kiosk_listings/internal/domain/model"
	"jo3qma.com/kiosk_listings/internal/domain/repository"
)

// ErrMissingAuctionID は一覧の商品からオークションIDを読み取れなかった場合のエラーです
var ErrMissingAuctionID = errors.New("product without auction id")

// yahooCategoryScraper はヤフオクのカテゴリ一覧ページを1つのオークションとみなし、
// 出品一覧をスクレイピングで取得する実装です
type yahooCategoryScraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewYahooCategoryScraper は新しいListingRepositoryの実装を作成します
// auctionID にはヤフオクのカテゴリIDを指定します
func NewYahooCategoryScraper(userAgent string) repository.ListingRepository {
	return newYahooCategoryScraper(
		&http.Client{Timeout: 30 * time.Second},
		"https://auctions.yahoo.co.jp",
		userAgent,
	)
}

// newYahooCategoryScraper はテスト容易性のための内部コンストラクタです。
// 本番コードは NewYahooCategoryScraper を利用し、テストでは http.Client/baseURL を注入します。
func newYahooCategoryScraper(client *http.Client, baseURL, userAgent string) *yahooCategoryScraper {
	return &yahooCategoryScraper{
		client:    client,
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// FetchPage はカテゴリ一覧の1ページ分を出品一覧として取得します
func (s *yahooCategoryScraper) FetchPage(ctx context.Context, categoryID string, page, size int) ([]*model.Listing, error) {
	targetURL, err := s.pageURL(categoryID, page, size)
	if err != nil {
		return nil, err
	}

	// 共通関数でHTML取得
	doc, err := fetchHTML(ctx, s.client, targetURL, s.userAgent)
	if err != nil {
		return nil, err
	}

	return s.extractListings(doc)
}

// pageURL はカテゴリ一覧のURLを構築します
// 例: https://auctions.yahoo.co.jp/category/list/{categoryID}/?auccat={categoryID}&b={offset}&n={size}&s1=new&o1=d
func (s *yahooCategoryScraper) pageURL(categoryID string, page, size int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("invalid page number: %d", page)
	}

	// b (offset) の計算: (1ページあたりの商品数 * (ページ番号 - 1)) + 1
	// pageは1始まりなので、1ページ目は 1, 2ページ目は size+1
	offset := size*(page-1) + 1

	u, err := url.Parse(fmt.Sprintf("%s/category/list/%s/", s.baseURL, url.PathEscape(categoryID)))
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("auccat", categoryID)
	q.Set("is_postage_mode", "1")
	q.Set("dest_pref_code", "27")
	q.Set("b", strconv.Itoa(offset))
	q.Set("n", strconv.Itoa(size))
	q.Set("s1", "new")
	q.Set("o1", "d")

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// extractListings は1ページ分の商品を取得順に変換します
// IDのない商品が混ざっていた場合はページ全体をエラーにします。
// 件数が減るとページの終端と区別できなくなるためです
func (s *yahooCategoryScraper) extractListings(doc *goquery.Document) ([]*model.Listing, error) {
	products := doc.Find("div.Products__list ul.Products__items li.Product")
	listings := make([]*model.Listing, 0, products.Length())

	var missing []int
	products.Each(func(i int, sel *goquery.Selection) {
		titleLink := sel.Find("h3.Product__title a.Product__titleLink")
		id := strings.TrimSpace(titleLink.AttrOr("data-auction-id", ""))
		if id == "" {
			missing = append(missing, i)
			return
		}

		title := strings.TrimSpace(titleLink.Text())
		listing := &model.Listing{
			ID:        id,
			ArtworkID: id,
			Title:     title,
			// 出品者のアーティスト情報はないため、タイトルをソートキーとして使う
			ArtistSortKey: title,
		}

		// 円は補助単位がないため、そのまま最小通貨単位として扱う
		priceText := sel.Find("div.Product__priceInfo span.Product__price").First().Find("span.Product__priceValue").Text()
		if v, ok := parseDigits(priceText); ok {
			listing.HighestBidCents = model.Int64(v)
		}
		if v, ok := parseDigits(sel.Find("dd.Product__bid").Text()); ok {
			listing.BidCount = model.Int64(v)
		}

		listings = append(listings, listing)
	})

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: positions %v of %d", ErrMissingAuctionID, missing, products.Length())
	}
	return listings, nil
}
