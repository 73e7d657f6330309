package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"jo3qma.com/kiosk_listings/internal/domain/model"
	"jo3qma.com/kiosk_listings/internal/domain/repository"
)

const tracerName = "jo3qma.com/kiosk_listings/internal/usecase"

// ErrAlreadyRunning は同じエンジンで Run が二重に呼ばれた場合のエラーです
var ErrAlreadyRunning = errors.New("listings sync engine is already running")

// EngineConfig は同期エンジンの設定です
type EngineConfig struct {
	AuctionID    string
	PageSize     int
	SyncInterval time.Duration
	FetchTimeout time.Duration
}

// Update は購読者へ通知される一覧の状態です
type Update struct {
	Seq         uint64 // 最後に反映した同期サイクルの番号（未反映なら0）
	Mode        model.SortMode
	Layout      model.Layout
	Listings    []*model.Listing // Mode で並べ替え済み
	HasListings bool             // 一覧が空でないか（ローディング表示の切り替えに使う）
}

type subscriber struct {
	fn     func(Update)
	primed bool
}

type cycleResult struct {
	seq      uint64
	snapshot model.Snapshot
	err      error
}

type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func newRealTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// ListingsSyncEngine は出品一覧を定期的に取得し、現在の一覧へ反映して購読者へ通知します
//
// 保持している一覧は Run のループ goroutine だけが変更します。
// 購読者のコールバックも同じ goroutine 上で順番に呼ばれるため、
// コールバック内ではレコードのフィールドをロックなしで読むことができます。
type ListingsSyncEngine struct {
	repo       repository.ListingRepository
	cfg        EngineConfig
	shouldSync func() bool
	newTicker  tickerFunc
	tracer     trace.Tracer

	mu       sync.RWMutex
	current  []*model.Listing
	mode     model.SortMode
	applied  uint64
	pubMode  model.SortMode
	running  atomic.Bool
	wake     chan struct{}
	onResult func(seq uint64, applied bool)
	subMu    sync.Mutex
	subs     map[int]*subscriber
	nextSubs int
}

// NewListingsSyncEngine は新しいListingsSyncEngineインスタンスを作成します
// shouldSync が nil の場合は毎回同期します
func NewListingsSyncEngine(repo repository.ListingRepository, cfg EngineConfig, shouldSync func() bool) *ListingsSyncEngine {
	if shouldSync == nil {
		shouldSync = func() bool { return true }
	}
	return &ListingsSyncEngine{
		repo:       repo,
		cfg:        cfg,
		shouldSync: shouldSync,
		newTicker:  newRealTicker,
		tracer:     otel.Tracer(tracerName),
		wake:       make(chan struct{}, 1),
		subs:       make(map[int]*subscriber),
	}
}

// Run は ctx がキャンセルされるまでポーリングを行います
// 開始直後に1回、その後は SyncInterval ごとに同期を試みます。
// 戻る前にタイマーを止め、実行中の取得をキャンセルして終了を待ちます。
func (e *ListingsSyncEngine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	ticks, stopTicker := e.newTicker(e.cfg.SyncInterval)
	defer stopTicker()

	results := make(chan cycleResult)
	var (
		wg             sync.WaitGroup
		issued         uint64
		cancelInFlight context.CancelFunc = func() {}
	)
	defer func() {
		cancelInFlight()
		wg.Wait()
	}()

	tick := func(now time.Time) {
		if !e.shouldSync() {
			return
		}

		// 新しいサイクルが古いサイクルを置き換える
		cancelInFlight()
		issued++
		cycleCtx, cancel := context.WithCancel(ctx)
		cancelInFlight = cancel

		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			res := e.runCycle(cycleCtx, seq, now)
			select {
			case results <- res:
			case <-ctx.Done():
			}
		}(issued)
	}

	tick(time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticks:
			tick(now)
		case res := <-results:
			e.apply(res, issued)
		case <-e.wake:
			e.publish(false)
		}
	}
}

func (e *ListingsSyncEngine) runCycle(ctx context.Context, seq uint64, now time.Time) cycleResult {
	cycleID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "ListingsSyncEngine.sync",
		trace.WithAttributes(
			attribute.String("auction.id", e.cfg.AuctionID),
			attribute.Int64("sync.seq", int64(seq)),
			attribute.String("sync.cycle_id", cycleID),
		),
	)
	defer span.End()

	log.Printf("sync start auction=%s seq=%d cycle=%s at=%s", e.cfg.AuctionID, seq, cycleID, now.Format(time.RFC3339))

	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}

	snapshot, err := FetchAllPages(ctx, e.repo, e.cfg.AuctionID, e.cfg.PageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return cycleResult{seq: seq, err: err}
	}

	span.SetAttributes(attribute.Int("listings.count", len(snapshot)))
	return cycleResult{seq: seq, snapshot: snapshot}
}

func (e *ListingsSyncEngine) apply(res cycleResult, issued uint64) {
	applied := e.applyResult(res, issued)
	if applied {
		e.publish(true)
	}
	if e.onResult != nil {
		e.onResult(res.seq, applied)
	}
}

// applyResult は最新のサイクルの成功結果だけを保持している一覧に反映します
func (e *ListingsSyncEngine) applyResult(res cycleResult, issued uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res.seq != issued || res.seq <= e.applied {
		log.Printf("sync dropped auction=%s seq=%d latest=%d", e.cfg.AuctionID, res.seq, issued)
		return false
	}
	if res.err != nil {
		log.Printf("sync failed auction=%s seq=%d err=%v", e.cfg.AuctionID, res.seq, res.err)
		return false
	}

	e.current = Reconcile(e.current, res.snapshot)
	e.applied = res.seq
	log.Printf("sync done auction=%s seq=%d listings=%d", e.cfg.AuctionID, res.seq, len(e.current))
	return true
}

// publish は購読者へ現在の状態を通知します
// all が false の場合、並び順が変わったときか、まだ通知していない購読者にだけ通知します
func (e *ListingsSyncEngine) publish(all bool) {
	e.mu.Lock()
	if e.mode != e.pubMode {
		all = true
	}
	e.pubMode = e.mode
	update := Update{
		Seq:         e.applied,
		Mode:        e.mode,
		Layout:      e.mode.Layout(),
		Listings:    model.SortListings(e.mode, e.current),
		HasListings: len(e.current) > 0,
	}
	e.mu.Unlock()

	e.subMu.Lock()
	targets := make([]*subscriber, 0, len(e.subs))
	for _, s := range e.subs {
		if all || !s.primed {
			s.primed = true
			targets = append(targets, s)
		}
	}
	e.subMu.Unlock()

	for _, s := range targets {
		s.fn(update)
	}
}

func (e *ListingsSyncEngine) notify() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Subscribe は一覧の更新を受け取るコールバックを登録します
// 登録後、ループ上で現在の状態が一度通知されます。戻り値の関数で登録を解除します。
func (e *ListingsSyncEngine) Subscribe(fn func(Update)) (cancel func()) {
	e.subMu.Lock()
	id := e.nextSubs
	e.nextSubs++
	e.subs[id] = &subscriber{fn: fn}
	e.subMu.Unlock()

	e.notify()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

// SetSortMode は並び順を変更し、保持している一覧を並べ替えて再通知します
// 取得は行いません
func (e *ListingsSyncEngine) SetSortMode(mode model.SortMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", model.ErrUnknownSortMode, int32(mode))
	}

	e.mu.Lock()
	e.mode = mode
	e.mu.Unlock()

	e.notify()
	return nil
}

// SortMode は現在の並び順を返します
func (e *ListingsSyncEngine) SortMode() model.SortMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Snapshot は現在の一覧を mode で並べ替えた値のコピーを返します
// ループ goroutine の外から一覧を読む場合に使います
func (e *ListingsSyncEngine) Snapshot(mode model.SortMode) (seq uint64, listings []model.Listing) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sorted := model.SortListings(mode, e.current)
	listings = make([]model.Listing, len(sorted))
	for i, l := range sorted {
		listings[i] = l.Clone()
	}
	return e.applied, listings
}

// HasListings は一覧が空でないかを返します
func (e *ListingsSyncEngine) HasListings() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.current) > 0
}
