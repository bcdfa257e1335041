package producthandler

type PublishBody struct {
	Title        string  `json:"titulo" binding:"required"`
	Category     string  `json:"categoria" binding:"required"`
	Condition    string  `json:"estado" binding:"required"`
	Description  string  `json:"descripcion" binding:"required"`
	Price        float64 `json:"precio" binding:"required"`
	City         string  `json:"ciudad" binding:"required"`
	Neighborhood string  `json:"barrio" binding:"required"`
	Contact      string  `json:"contacto" binding:"required"`
	OwnerID      string  `json:"id_usuario" binding:"required"`
}

type AvailabilityBody struct {
	Available *bool `json:"disponible" binding:"required"`
}

type FavoriteBody struct {
	UserID    string `json:"id_usuario" binding:"required"`
	ProductID string `json:"id_producto" binding:"required"`
}

type RateBody struct {
	UserID    string `json:"id_usuario" binding:"required"`
	ProductID string `json:"id_producto" binding:"required"`
	Score     int    `json:"puntuacion" binding:"required"`
}
