package ws

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"truekki/internal/services/auction"
)

// SubscribeBidEvents fans every accepted-bid event out to the in-process
// rooms. One pattern subscription covers all auctions, so the feed keeps
// working when bids are accepted by a different server process.
func SubscribeBidEvents(ctx context.Context, rdb *redis.Client, hub *Hub) {
	pubsub := rdb.PSubscribe(ctx, auction.EventChannelPrefix+"*"+auction.EventChannelSuffix)
	defer pubsub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			// channel format: "subasta:<id>:eventos"
			id := strings.TrimPrefix(m.Channel, auction.EventChannelPrefix)
			id = strings.TrimSuffix(id, auction.EventChannelSuffix)
			if id == "" || id == m.Channel {
				continue
			}
			hub.Broadcast(id, []byte(m.Payload))
		}
	}
}
