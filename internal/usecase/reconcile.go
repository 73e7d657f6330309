package usecase

import (
	"slices"
	"strings"

	"jo3qma.com/kiosk_listings/internal/domain/model"
)

// Reconcile は取得した incoming を現在保持している current に反映します
//
// 件数が同じで、かつIDの集合が1対1に対応する場合に限り、incoming の値を
// current の各レコードへコピーして current をそのまま（元の順序で）返します。
// これにより画面側が保持しているレコードの同一性が保たれます。
// それ以外（初回取得、件数の変化、IDの不一致、IDの重複）は incoming をそのまま返します。
func Reconcile(current, incoming []*model.Listing) []*model.Listing {
	if len(current) == 0 || len(current) != len(incoming) {
		return incoming
	}

	sortedCurrent := sortByID(current)
	sortedIncoming := sortByID(incoming)

	// 全件の対応を確認してからコピーする
	for i := range sortedCurrent {
		if !sameID(sortedCurrent[i], sortedIncoming[i]) {
			return incoming
		}
		if i > 0 && (sameID(sortedCurrent[i-1], sortedCurrent[i]) || sameID(sortedIncoming[i-1], sortedIncoming[i])) {
			return incoming
		}
	}

	for i := range sortedCurrent {
		sortedCurrent[i].UpdateWithValues(sortedIncoming[i])
	}
	return current
}

func sortByID(listings []*model.Listing) []*model.Listing {
	keyed := make([]keyedListing, len(listings))
	for i, l := range listings {
		keyed[i] = keyedListing{key: model.FoldKey(l.ID), listing: l}
	}
	slices.SortStableFunc(keyed, func(a, b keyedListing) int {
		return strings.Compare(a.key, b.key)
	})

	sorted := make([]*model.Listing, len(keyed))
	for i, k := range keyed {
		sorted[i] = k.listing
	}
	return sorted
}

type keyedListing struct {
	key     string
	listing *model.Listing
}

func sameID(a, b *model.Listing) bool {
	return model.CompareFold(a.ID, b.ID) == 0
}
