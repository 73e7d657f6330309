package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownSortMode は未定義のソートモードが指定された場合のエラーです
var ErrUnknownSortMode = errors.New("unknown sort mode")

// SortMode は一覧の並び順を表します
// 値はキオスク画面のスイッチの並び順に対応します
type SortMode int32

const (
	SortUnsorted     SortMode = 0 // 取得順のまま（グリッド表示）
	SortLeastBids    SortMode = 1
	SortMostBids     SortMode = 2
	SortHighestBid   SortMode = 3
	SortLowestBid    SortMode = 4
	SortAlphabetical SortMode = 5
)

// Layout は一覧の表示形式です
type Layout int32

const (
	LayoutMasonry Layout = 0 // グリッド（メイソンリー）表示
	LayoutTable   Layout = 1 // テーブル表示
)

var sortModeKeys = map[SortMode]string{
	SortUnsorted:     "unsorted",
	SortLeastBids:    "least_bids",
	SortMostBids:     "most_bids",
	SortHighestBid:   "highest_bid",
	SortLowestBid:    "lowest_bid",
	SortAlphabetical: "alphabetical",
}

var sortModeNames = map[SortMode]string{
	SortUnsorted:     "Grid",
	SortLeastBids:    "Least Bids",
	SortMostBids:     "Most Bids",
	SortHighestBid:   "Highest Bid",
	SortLowestBid:    "Lowest Bid",
	SortAlphabetical: "A–Z",
}

// AllSortModes はスイッチに表示する順序で全てのソートモードを返します
func AllSortModes() []SortMode {
	return []SortMode{
		SortUnsorted,
		SortLeastBids,
		SortMostBids,
		SortHighestBid,
		SortLowestBid,
		SortAlphabetical,
	}
}

// Valid は m が定義済みのモードかどうかを返します
func (m SortMode) Valid() bool {
	_, ok := sortModeKeys[m]
	return ok
}

// Key は API で使う安定したキーを返します
func (m SortMode) Key() string {
	if k, ok := sortModeKeys[m]; ok {
		return k
	}
	return fmt.Sprintf("sort_mode(%d)", int32(m))
}

// Name はスイッチに表示するタイトルを返します
func (m SortMode) Name() string {
	if n, ok := sortModeNames[m]; ok {
		return n
	}
	return m.Key()
}

func (m SortMode) String() string {
	return m.Key()
}

// Layout はモードに対応する表示形式を返します
// 並べ替えなしのときだけグリッド表示になります
func (m SortMode) Layout() Layout {
	if m == SortUnsorted {
		return LayoutMasonry
	}
	return LayoutTable
}

func (l Layout) String() string {
	switch l {
	case LayoutMasonry:
		return "masonry"
	case LayoutTable:
		return "table"
	default:
		return fmt.Sprintf("layout(%d)", int32(l))
	}
}

// ParseSortMode はキーまたは表示名からソートモードを解決します
// 比較は大文字小文字を区別しません
func ParseSortMode(s string) (SortMode, error) {
	s = strings.TrimSpace(s)
	for _, m := range AllSortModes() {
		if CompareFold(s, m.Key()) == 0 || CompareFold(s, m.Name()) == 0 {
			return m, nil
		}
	}
	return SortUnsorted, fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
}

// SortListings は mode に従って並べ替えた新しいスライスを返します
// 入力のスライスは変更しません。同順位の要素は元の順序を保ちます
func SortListings(mode SortMode, listings []*Listing) []*Listing {
	sorted := slices.Clone(listings)
	if sorted == nil {
		sorted = []*Listing{}
	}

	var compare func(a, b *Listing) int
	switch mode {
	case SortLeastBids:
		compare = func(a, b *Listing) int { return cmp.Compare(a.Bids(), b.Bids()) }
	case SortMostBids:
		compare = func(a, b *Listing) int { return cmp.Compare(b.Bids(), a.Bids()) }
	case SortHighestBid:
		compare = func(a, b *Listing) int { return cmp.Compare(b.HighestBid(), a.HighestBid()) }
	case SortLowestBid:
		compare = func(a, b *Listing) int { return cmp.Compare(a.HighestBid(), b.HighestBid()) }
	case SortAlphabetical:
		compare = func(a, b *Listing) int { return CompareFold(a.ArtistSortKey, b.ArtistSortKey) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}
