package auction

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"

	"truekki/internal/store"
)

// memStore mimics the record store's conditional-update semantics in memory.
type memStore struct {
	mu       sync.Mutex
	auctions map[string]*store.Auction
	images   map[string][]byte
	bids     []store.Bid

	insertErr error
}

func newMemStore() *memStore {
	return &memStore{
		auctions: make(map[string]*store.Auction),
		images:   make(map[string][]byte),
	}
}

func (m *memStore) InsertAuction(_ context.Context, a *store.Auction, image []byte) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.auctions[a.ID] = &cp
	m.images[a.ID] = image
	return nil
}

func (m *memStore) ListActiveAuctions(context.Context) ([]store.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]store.Auction, 0)
	for _, a := range m.auctions {
		if a.Status == store.AuctionActive {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (m *memStore) AuctionByID(_ context.Context, id string) (*store.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.auctions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) AuctionImage(_ context.Context, id string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok || len(img) == 0 {
		return nil, "", store.ErrNotFound
	}
	return img, m.auctions[id].ImageFilename, nil
}

func (m *memStore) PlaceBid(_ context.Context, b *store.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.auctions[b.AuctionID]
	if !ok || a.Status != store.AuctionActive {
		return store.ErrAuctionInactive
	}
	if b.Amount <= a.CurrentPrice {
		return store.ErrPriceNotExceeded
	}
	a.CurrentPrice = b.Amount
	m.bids = append(m.bids, *b)
	return nil
}

func (m *memStore) finalizeExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.auctions {
		if a.Status == store.AuctionActive && a.ExpiresAt.Before(now) {
			a.Status = store.AuctionFinalized
			n++
		}
	}
	return n
}

func newTestService(ms *memStore, now time.Time) *auctionService {
	return &auctionService{
		st:              ms,
		defaultDuration: 24 * time.Hour,
		now:             func() time.Time { return now },
	}
}

func TestCreate_Defaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ms := newMemStore()
	svc := newTestService(ms, now)

	id, err := svc.Create(context.Background(), "u1", "Camisa", "Camisa oficial", 100, []byte{0xff}, "camisa.jpg", 0)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	a := ms.auctions[id]
	require.Equal(t, store.AuctionActive, a.Status)
	require.Equal(t, 100.0, a.InitialPrice)
	require.Equal(t, 100.0, a.CurrentPrice)
	require.Equal(t, now, a.CreatedAt)
	require.Equal(t, now.Add(24*time.Hour), a.ExpiresAt)
}

func TestCreate_CustomDuration(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ms := newMemStore()
	svc := newTestService(ms, now)

	id, err := svc.Create(context.Background(), "u1", "Bici", "Bicicleta", 200, []byte{0xff}, "bici.jpg", 3)
	require.NoError(t, err)
	require.Equal(t, now.Add(3*time.Hour), ms.auctions[id].ExpiresAt)
}

func TestCreate_Validation(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms, time.Now())
	img := []byte{0xff}

	tests := []struct {
		name  string
		owner string
		title string
		desc  string
		price float64
		image []byte
	}{
		{"missing_owner", "", "t", "d", 10, img},
		{"missing_title", "u1", "", "d", 10, img},
		{"missing_description", "u1", "t", "", 10, img},
		{"missing_image", "u1", "t", "d", 10, nil},
		{"zero_price", "u1", "t", "d", 0, img},
		{"negative_price", "u1", "t", "d", -5, img},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.owner, tc.title, tc.desc, tc.price, tc.image, "f.jpg", 0)
			require.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestCreate_PersistenceError(t *testing.T) {
	ms := newMemStore()
	ms.insertErr = errors.New("disk on fire")
	svc := newTestService(ms, time.Now())

	_, err := svc.Create(context.Background(), "u1", "t", "d", 10, []byte{0xff}, "f.jpg", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk on fire")
}

func TestPlaceBid_Validation(t *testing.T) {
	svc := newTestService(newMemStore(), time.Now())

	require.ErrorIs(t, svc.PlaceBid(context.Background(), "", "u1", 10), ErrMissingFields)
	require.ErrorIs(t, svc.PlaceBid(context.Background(), "a1", "", 10), ErrMissingFields)
	require.ErrorIs(t, svc.PlaceBid(context.Background(), "a1", "u1", 0), ErrInvalidAmount)
	require.ErrorIs(t, svc.PlaceBid(context.Background(), "a1", "u1", -1), ErrInvalidAmount)
}

func TestPlaceBid_UnknownAuction(t *testing.T) {
	svc := newTestService(newMemStore(), time.Now())
	require.ErrorIs(t, svc.PlaceBid(context.Background(), "missing", "u1", 10), ErrNotFound)
}

func TestAuctionLifecycle(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ms := newMemStore()
	svc := newTestService(ms, now)
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "Camisa", "Camisa oficial", 100, []byte{0xff}, "camisa.jpg", 1)
	require.NoError(t, err)

	// Below the current price: rejected, nothing recorded.
	require.ErrorIs(t, svc.PlaceBid(ctx, id, "u2", 90), ErrBidTooLow)
	require.Empty(t, ms.bids)

	// Strictly above: accepted, price follows the bid.
	require.NoError(t, svc.PlaceBid(ctx, id, "u2", 150))
	require.Equal(t, 150.0, ms.auctions[id].CurrentPrice)
	require.Len(t, ms.bids, 1)
	require.Equal(t, 150.0, ms.bids[0].Amount)
	require.Equal(t, id, ms.bids[0].AuctionID)

	// Equal to the current price: rejected (strict inequality).
	require.ErrorIs(t, svc.PlaceBid(ctx, id, "u3", 150), ErrBidTooLow)

	// Clock passes expiry, the sweep finalizes it.
	later := now.Add(2 * time.Hour)
	require.Equal(t, 1, ms.finalizeExpired(later))

	// Gone from the active listing, still retrievable by ID.
	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	a, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, store.AuctionFinalized, a.Status)

	// Bidding against the finalized auction reads as not found.
	require.ErrorIs(t, svc.PlaceBid(ctx, id, "u4", 500), ErrNotFound)

	// A second sweep changes nothing.
	require.Equal(t, 0, ms.finalizeExpired(later))
}

func TestPlaceBid_PublishesEvent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ms := newMemStore()
	svc := newTestService(ms, now)

	rdb, mock := redismock.NewClientMock()
	svc.rdc = rdb

	id, err := svc.Create(context.Background(), "u1", "Camisa", "Camisa oficial", 100, []byte{0xff}, "camisa.jpg", 0)
	require.NoError(t, err)

	mock.ClearExpect()
	payload, err := json.Marshal(BidEvent{
		Event:     "puja",
		AuctionID: id,
		BidderID:  "u2",
		Amount:    150,
		PlacedAt:  now,
	})
	require.NoError(t, err)
	mock.ExpectPublish(EventChannelPrefix+id+EventChannelSuffix, payload).SetVal(1)

	require.NoError(t, svc.PlaceBid(context.Background(), id, "u2", 150))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_PublishFailureDoesNotUndoBid(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ms := newMemStore()
	svc := newTestService(ms, now)

	rdb, mock := redismock.NewClientMock()
	svc.rdc = rdb

	id, err := svc.Create(context.Background(), "u1", "Camisa", "Camisa oficial", 100, []byte{0xff}, "camisa.jpg", 0)
	require.NoError(t, err)

	mock.ClearExpect()
	payload, err := json.Marshal(BidEvent{
		Event:     "puja",
		AuctionID: id,
		BidderID:  "u2",
		Amount:    150,
		PlacedAt:  now,
	})
	require.NoError(t, err)
	mock.ExpectPublish(EventChannelPrefix+id+EventChannelSuffix, payload).SetErr(errors.New("redis down"))

	// The bid already stands; the event is best-effort.
	require.NoError(t, svc.PlaceBid(context.Background(), id, "u2", 150))
	require.Equal(t, 150.0, ms.auctions[id].CurrentPrice)
}

func TestListActive_CachesResult(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ms := newMemStore()
	svc := newTestService(ms, now)

	rdb, mock := redismock.NewClientMock()
	svc.rdc = rdb

	list, err := ms.ListActiveAuctions(context.Background())
	require.NoError(t, err)
	data, err := json.Marshal(list)
	require.NoError(t, err)

	mock.ExpectGet(ActiveListCacheKey).RedisNil()
	mock.ExpectSet(ActiveListCacheKey, data, activeListCacheTTL).SetVal("OK")

	got, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, list, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActive_ServesFromCache(t *testing.T) {
	svc := newTestService(newMemStore(), time.Now())

	cached := []store.Auction{{ID: "a1", Title: "Camisa", Status: store.AuctionActive}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	svc.rdc = rdb
	mock.ExpectGet(ActiveListCacheKey).SetVal(string(data))

	got, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a1", got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
