package auctionhandler

type PlaceBidBody struct {
	AuctionID string  `json:"id_subasta" binding:"required"`
	BidderID  string  `json:"id_usuario" binding:"required"`
	Amount    float64 `json:"monto"      binding:"required"`
}
