// watch はサーバーの出品一覧を購読し、更新のたびに表形式で表示するコマンドです
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"connectrpc.com/connect"
	"jo3qma.com/kiosk_listings/internal/api/listingsv1"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	sortMode := flag.String("sort", "", "sort mode to select before watching (e.g. most_bids)")
	visible := flag.Bool("visible", true, "report the screen as visible so the server keeps syncing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := listingsv1.NewListingsServiceClient(http.DefaultClient, *addr)

	if _, err := client.ReportScreenState(ctx, connect.NewRequest(&listingsv1.ReportScreenStateRequest{
		Visible: *visible,
	})); err != nil {
		log.Fatalf("❌ ReportScreenState failed: %v", err)
	}

	if *sortMode != "" {
		resp, err := client.SetSortMode(ctx, connect.NewRequest(&listingsv1.SetSortModeRequest{SortMode: *sortMode}))
		if err != nil {
			log.Fatalf("❌ SetSortMode failed: %v", err)
		}
		log.Printf("sort mode=%s layout=%s", resp.Msg.SortMode, resp.Msg.Layout)
	}

	stream, err := client.WatchListings(ctx, connect.NewRequest(&listingsv1.WatchListingsRequest{}))
	if err != nil {
		log.Fatalf("❌ WatchListings failed: %v", err)
	}
	defer stream.Close()

	for stream.Receive() {
		printListings(stream.Msg())
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		log.Fatalf("❌ stream closed: %v", err)
	}
}

func printListings(msg *listingsv1.ListingsResponse) {
	fmt.Printf("\n== seq=%d sort=%s layout=%s ==\n", msg.Seq, msg.SortMode, msg.Layout)
	if !msg.HasListings {
		fmt.Println("(loading)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOT\tID\tTITLE\tBIDS\tHIGHEST")
	for _, l := range msg.Listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", optional(l.LotNumber), l.ID, l.Title, optional(l.BidCount), cents(l.HighestBidCents))
	}
	_ = w.Flush()
}

func optional(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func cents(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d.%02d", *v/100, *v%100)
}
