package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Listing はオークションに出品されているロット1件のスナップショットです
// ID が同一性を表し、それ以外のフィールドは同期のたびに更新され得ます
type Listing struct {
	ID                  string
	ArtworkID           string
	Title               string
	ArtistSortKey       string // アーティスト名のソートキー
	LotNumber           *int64
	BidCount            *int64 // 入札数。未取得の場合は nil
	HighestBidCents     *int64 // 現在の最高入札額（最小通貨単位）。未取得の場合は nil
	OpeningBidCents     *int64
	MinimumNextBidCents *int64
	ReserveStatus       string
}

// Snapshot はページネーション取得1回分の結果です
// 並び順は取得順（ページ1..N、ページ内の順）であり、表示上の意味はありません
type Snapshot []*Listing

// UpdateWithValues は src の可変フィールドを l にコピーします
// ID は同一性なので変更しません
func (l *Listing) UpdateWithValues(src *Listing) {
	l.ArtworkID = src.ArtworkID
	l.Title = src.Title
	l.ArtistSortKey = src.ArtistSortKey
	l.LotNumber = copyInt64(src.LotNumber)
	l.BidCount = copyInt64(src.BidCount)
	l.HighestBidCents = copyInt64(src.HighestBidCents)
	l.OpeningBidCents = copyInt64(src.OpeningBidCents)
	l.MinimumNextBidCents = copyInt64(src.MinimumNextBidCents)
	l.ReserveStatus = src.ReserveStatus
}

// Clone は l の値コピーを返します
func (l *Listing) Clone() Listing {
	c := *l
	c.LotNumber = copyInt64(l.LotNumber)
	c.BidCount = copyInt64(l.BidCount)
	c.HighestBidCents = copyInt64(l.HighestBidCents)
	c.OpeningBidCents = copyInt64(l.OpeningBidCents)
	c.MinimumNextBidCents = copyInt64(l.MinimumNextBidCents)
	return c
}

// Bids は入札数を返します。未取得は0として扱います
func (l *Listing) Bids() int64 {
	if l.BidCount == nil {
		return 0
	}
	return *l.BidCount
}

// HighestBid は最高入札額を返します。未取得は0として扱います
func (l *Listing) HighestBid() int64 {
	if l.HighestBidCents == nil {
		return 0
	}
	return *l.HighestBidCents
}

// FoldKey は大文字小文字を区別しない比較用のキーを返します
// Unicode の case folding を使うため、ASCII 以外の文字も正しく比較できます
func FoldKey(s string) string {
	// cases.Caser は状態を持つため、呼び出しごとに生成します
	return cases.Fold().String(s)
}

// CompareFold は a と b を大文字小文字を区別せずに比較します
func CompareFold(a, b string) int {
	return strings.Compare(FoldKey(a), FoldKey(b))
}

// Int64 は v へのポインタを返します
func Int64(v int64) *int64 {
	return &v
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
