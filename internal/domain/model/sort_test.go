package model

import (
	"errors"
	"testing"
)

func bids(n int64) *Listing {
	return &Listing{ID: "bids", BidCount: Int64(n)}
}

func TestSortListings_mostBids(t *testing.T) {
	t.Parallel()

	in := []*Listing{bids(3), bids(1), bids(2)}
	got := SortListings(SortMostBids, in)

	want := []int64{3, 2, 1}
	for i, l := range got {
		if l.Bids() != want[i] {
			t.Fatalf("got[%d] bids %d, want %d", i, l.Bids(), want[i])
		}
	}
	// 入力は変更しない
	if in[0].Bids() != 3 || in[1].Bids() != 1 || in[2].Bids() != 2 {
		t.Fatalf("input was reordered")
	}
}

func TestSortListings_unsortedIsEqualOrderCopy(t *testing.T) {
	t.Parallel()

	in := []*Listing{bids(3), bids(1), bids(2)}
	got := SortListings(SortUnsorted, in)

	if len(got) != len(in) {
		t.Fatalf("len got %d, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("got[%d] differs from input", i)
		}
	}
	got[0] = nil
	if in[0] == nil {
		t.Fatalf("result aliases input slice")
	}
}

func TestSortListings_modes(t *testing.T) {
	t.Parallel()

	a := &Listing{ID: "a", BidCount: Int64(5), HighestBidCents: Int64(100), ArtistSortKey: "warhol-andy"}
	b := &Listing{ID: "b", BidCount: nil, HighestBidCents: Int64(900), ArtistSortKey: "Abbott-Berenice"}
	c := &Listing{ID: "c", BidCount: Int64(2), HighestBidCents: nil, ArtistSortKey: "kusama-yayoi"}
	in := []*Listing{a, b, c}

	cases := []struct {
		mode SortMode
		want []*Listing
	}{
		{mode: SortLeastBids, want: []*Listing{b, c, a}},
		{mode: SortMostBids, want: []*Listing{a, c, b}},
		{mode: SortHighestBid, want: []*Listing{b, a, c}},
		{mode: SortLowestBid, want: []*Listing{c, a, b}},
		{mode: SortAlphabetical, want: []*Listing{b, c, a}},
		{mode: SortUnsorted, want: []*Listing{a, b, c}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.mode.Key(), func(t *testing.T) {
			t.Parallel()

			got := SortListings(tc.mode, in)
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("got[%d] = %s, want %s", i, got[i].ID, tc.want[i].ID)
				}
			}
		})
	}
}

func TestSortListings_tiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	first := &Listing{ID: "first"}
	second := &Listing{ID: "second", BidCount: Int64(0)}
	got := SortListings(SortMostBids, []*Listing{first, second})
	if got[0] != first || got[1] != second {
		t.Fatalf("tie order not stable: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSortListings_nilInput(t *testing.T) {
	t.Parallel()

	got := SortListings(SortAlphabetical, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty slice", got)
	}
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want SortMode
	}{
		{in: "unsorted", want: SortUnsorted},
		{in: "Grid", want: SortUnsorted},
		{in: "LEAST BIDS", want: SortLeastBids},
		{in: "most_bids", want: SortMostBids},
		{in: " highest bid ", want: SortHighestBid},
		{in: "lowest_bid", want: SortLowestBid},
		{in: "a–z", want: SortAlphabetical},
		{in: "alphabetical", want: SortAlphabetical},
	}
	for _, tc := range cases {
		got, err := ParseSortMode(tc.in)
		if err != nil {
			t.Fatalf("ParseSortMode(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSortMode(%q) got %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseSortMode("newest"); !errors.Is(err, ErrUnknownSortMode) {
		t.Fatalf("got error %v, want %v", err, ErrUnknownSortMode)
	}
}

func TestSortMode_Layout(t *testing.T) {
	t.Parallel()

	for _, m := range AllSortModes() {
		want := LayoutTable
		if m == SortUnsorted {
			want = LayoutMasonry
		}
		if m.Layout() != want {
			t.Fatalf("%v layout got %v, want %v", m, m.Layout(), want)
		}
		if !m.Valid() {
			t.Fatalf("%v should be valid", m)
		}
	}
	if SortMode(99).Valid() {
		t.Fatalf("SortMode(99) should be invalid")
	}
}

func TestListing_UpdateWithValuesKeepsID(t *testing.T) {
	t.Parallel()

	held := &Listing{ID: "lot-1"}
	held.UpdateWithValues(&Listing{ID: "other", Title: "t", BidCount: Int64(3)})
	if held.ID != "lot-1" {
		t.Fatalf("ID got %q, want %q", held.ID, "lot-1")
	}
	if held.Title != "t" || held.Bids() != 3 {
		t.Fatalf("fields not copied: %+v", held)
	}
}
