package auction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"truekki/internal/store"
)

const (
	// ActiveListCacheKey holds the JSON of the active-auction listing.
	ActiveListCacheKey = "subastas:activas"
	activeListCacheTTL = 5 * time.Second

	// EventChannelPrefix + auction ID is the pub/sub channel carrying
	// accepted-bid events for the live feed.
	EventChannelPrefix = "subasta:"
	EventChannelSuffix = ":eventos"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidAmount = errors.New("invalid bid amount")
	ErrNotFound      = errors.New("auction not found")
	ErrBidTooLow     = errors.New("bid must exceed current price")
)

// BidEvent is published to Redis after every accepted bid.
type BidEvent struct {
	Event     string    `json:"event"`
	AuctionID string    `json:"id_subasta"`
	BidderID  string    `json:"id_usuario"`
	Amount    float64   `json:"monto"`
	PlacedAt  time.Time `json:"fecha"`
}

type Store interface {
	InsertAuction(ctx context.Context, a *store.Auction, image []byte) error
	ListActiveAuctions(ctx context.Context) ([]store.Auction, error)
	AuctionByID(ctx context.Context, id string) (*store.Auction, error)
	AuctionImage(ctx context.Context, id string) ([]byte, string, error)
	PlaceBid(ctx context.Context, b *store.Bid) error
}

type IAuctionService interface {
	Create(ctx context.Context, ownerID, title, description string, initialPrice float64, image []byte, filename string, durationHours uint) (string, error)
	ListActive(ctx context.Context) ([]store.Auction, error)
	Get(ctx context.Context, id string) (*store.Auction, error)
	Image(ctx context.Context, id string) ([]byte, string, error)
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) error
}

type auctionService struct {
	st              Store
	rdc             *redis.Client
	defaultDuration time.Duration
	now             func() time.Time
}

func NewAuctionService(st Store, rdc *redis.Client, defaultDurationHours uint) IAuctionService {
	return &auctionService{
		st:              st,
		rdc:             rdc,
		defaultDuration: time.Duration(defaultDurationHours) * time.Hour,
		now:             time.Now,
	}
}

// Create opens a new auction. The image is mandatory here, unlike plain
// product publishing where it is uploaded in a second request.
func (svc *auctionService) Create(ctx context.Context, ownerID, title, description string,
	initialPrice float64, image []byte, filename string, durationHours uint) (string, error) {

	if ownerID == "" || title == "" || description == "" || len(image) == 0 {
		return "", ErrMissingFields
	}
	if initialPrice <= 0 {
		return "", ErrMissingFields
	}

	duration := svc.defaultDuration
	if durationHours > 0 {
		duration = time.Duration(durationHours) * time.Hour
	}

	now := svc.now().UTC()
	a := &store.Auction{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   description,
		InitialPrice:  initialPrice,
		CurrentPrice:  initialPrice,
		OwnerID:       ownerID,
		Status:        store.AuctionActive,
		CreatedAt:     now,
		ExpiresAt:     now.Add(duration),
		ImageFilename: filename,
	}
	if err := svc.st.InsertAuction(ctx, a, image); err != nil {
		return "", fmt.Errorf("insert auction: %w", err)
	}
	svc.bustListCache(ctx)
	return a.ID, nil
}

func (svc *auctionService) ListActive(ctx context.Context) ([]store.Auction, error) {
	if svc.rdc != nil {
		if cached, err := svc.rdc.Get(ctx, ActiveListCacheKey).Result(); err == nil {
			var list []store.Auction
			if err := json.Unmarshal([]byte(cached), &list); err == nil {
				return list, nil
			}
		}
	}

	list, err := svc.st.ListActiveAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}

	if svc.rdc != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := svc.rdc.Set(ctx, ActiveListCacheKey, data, activeListCacheTTL).Err(); err != nil {
				zap.L().Debug("auction_cache_set", zap.Error(err))
			}
		}
	}
	return list, nil
}

func (svc *auctionService) Get(ctx context.Context, id string) (*store.Auction, error) {
	a, err := svc.st.AuctionByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get auction %s: %w", id, err)
	}
	return a, nil
}

func (svc *auctionService) Image(ctx context.Context, id string) ([]byte, string, error) {
	image, filename, err := svc.st.AuctionImage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get auction image %s: %w", id, err)
	}
	return image, filename, nil
}

// PlaceBid accepts a bid strictly above the current price. The acceptance
// check and the price raise are one conditional statement in the store, so
// concurrent bidders race on the database row, not on a stale read.
func (svc *auctionService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) error {
	if auctionID == "" || bidderID == "" {
		return ErrMissingFields
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b := &store.Bid{
		ID:        uuid.New().String(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		PlacedAt:  svc.now().UTC(),
	}
	err := svc.st.PlaceBid(ctx, b)
	switch {
	case errors.Is(err, store.ErrAuctionInactive):
		return ErrNotFound
	case errors.Is(err, store.ErrPriceNotExceeded):
		return ErrBidTooLow
	case err != nil:
		return fmt.Errorf("place bid on %s: %w", auctionID, err)
	}

	svc.publishBid(ctx, b)
	return nil
}

// publishBid pushes the accepted bid onto the auction's event channel for
// the websocket feed. The bid already stands; failures are only logged.
func (svc *auctionService) publishBid(ctx context.Context, b *store.Bid) {
	if svc.rdc == nil {
		return
	}
	ev := BidEvent{
		Event:     "puja",
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		PlacedAt:  b.PlacedAt,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		zap.L().Warn("bid_event_marshal", zap.Error(err))
		return
	}
	channel := EventChannelPrefix + b.AuctionID + EventChannelSuffix
	if err := svc.rdc.Publish(ctx, channel, payload).Err(); err != nil {
		zap.L().Warn("bid_event_publish", zap.String("id_subasta", b.AuctionID), zap.Error(err))
	}
}

func (svc *auctionService) bustListCache(ctx context.Context) {
	if svc.rdc == nil {
		return
	}
	if err := svc.rdc.Del(ctx, ActiveListCacheKey).Err(); err != nil {
		zap.L().Debug("auction_cache_bust", zap.Error(err))
	}
}
