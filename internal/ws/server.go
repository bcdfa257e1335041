package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second // must be < pongWait
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// FeedServer exposes the live bid feed. The feed is one-way: clients never
// send bids over the socket, they only receive the events the Bid Processor
// publishes to Redis.
type FeedServer struct {
	hub *Hub
}

func NewFeedServer(hub *Hub) *FeedServer { return &FeedServer{hub: hub} }

// Handle upgrades the request and joins the client to its auction room.
func (s *FeedServer) Handle(ginCtx *gin.Context) {
	auctionID := ginCtx.Query("id_subasta")
	if auctionID == "" {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "id_subasta es obligatorio"})
		return
	}

	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws_upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(512)

	conn := &clientConn{rawConn: rawConn}
	s.hub.Join(auctionID, conn)

	go s.reader(auctionID, conn)
	go s.pinger(conn)
}

// reader drains the connection until the client goes away; inbound frames
// are discarded.
func (s *FeedServer) reader(auctionID string, conn *clientConn) {
	defer s.hub.Leave(auctionID, conn)

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.rawConn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *FeedServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.write(websocket.PingMessage, nil); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}
