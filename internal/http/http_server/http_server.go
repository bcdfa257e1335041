package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truekki/internal/http/auctionhandler"
	"truekki/internal/http/chathandler"
	"truekki/internal/http/producthandler"
	"truekki/internal/http/userhandler"
	"truekki/internal/services/auction"
	"truekki/internal/services/chat"
	"truekki/internal/services/product"
	"truekki/internal/services/user"
	"truekki/internal/ws"
)

// httpServer is the single routing layer in front of every component.
type httpServer struct {
	listenPort uint16
	srv        http.Server
	ln         net.Listener
	ctx        context.Context

	userService    user.IUserService
	productService product.IProductService
	chatService    chat.IChatService
	auctionService auction.IAuctionService
	feedSrv        *ws.FeedServer
}

func NewHttpServer(ctx context.Context, listenPort uint16,
	userService user.IUserService,
	productService product.IProductService,
	chatService chat.IChatService,
	auctionService auction.IAuctionService,
	feedSrv *ws.FeedServer,
) *httpServer {
	return &httpServer{
		listenPort:     listenPort,
		ctx:            ctx,
		userService:    userService,
		productService: productService,
		chatService:    chatService,
		auctionService: auctionService,
		feedSrv:        feedSrv,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// live bid feed
	routerEngine.GET("/ws/subastas", h.feedSrv.Handle)

	// REST API
	userhandler.New(h.userService).Register(routerEngine)
	producthandler.New(h.productService).Register(routerEngine)
	chathandler.New(h.chatService).Register(routerEngine)
	auctionhandler.New(h.auctionService).Register(routerEngine)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}

	return nil
}
