package auctionhandler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"truekki/internal/http/resp"
	"truekki/internal/services/auction"
)

type Handler struct {
	svc auction.IAuctionService
}

func New(svc auction.IAuctionService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/crear-subasta", h.create)
	r.GET("/subastas", h.list)
	r.GET("/subastas/:id", h.info)
	r.POST("/subastas/pujar", h.bid)
	r.GET("/subastas/imagen/:id", h.image)
}

func (h *Handler) create(c *gin.Context) {
	title := c.PostForm("titulo")
	description := c.PostForm("descripcion")
	ownerID := c.PostForm("id_usuario")

	price, err := strconv.ParseFloat(c.PostForm("precio_inicial"), 64)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "precio_inicial inválido")
		return
	}

	var durationHours uint
	if raw := c.PostForm("duracion_horas"); raw != "" {
		d, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			resp.Fail(c, http.StatusBadRequest, "duracion_horas inválida")
			return
		}
		durationHours = uint(d)
	}

	fileHeader, err := c.FormFile("foto")
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "la foto es obligatoria")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "no se pudo leer la foto")
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "no se pudo leer la foto")
		return
	}

	id, err := h.svc.Create(c.Request.Context(), ownerID, title, description,
		price, image, fileHeader.Filename, durationHours)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"id_subasta": id})
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"subastas": list})
}

func (h *Handler) info(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"subasta": a})
}

func (h *Handler) bid(c *gin.Context) {
	var body PlaceBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "id_subasta, id_usuario y monto son obligatorios")
		return
	}

	err := h.svc.PlaceBid(c.Request.Context(), body.AuctionID, body.BidderID, body.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, nil)
}

func (h *Handler) image(c *gin.Context) {
	image, filename, err := h.svc.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "image/jpeg", image)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auction.ErrMissingFields),
		errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrBidTooLow):
		resp.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auction.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, err.Error())
	default:
		resp.Fail(c, http.StatusInternalServerError, err.Error())
	}
}
