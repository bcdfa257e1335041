package chathandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"truekki/internal/http/resp"
	"truekki/internal/services/chat"
)

type SendBody struct {
	SenderID    string `json:"id_emisor" binding:"required"`
	RecipientID string `json:"id_receptor" binding:"required"`
	Body        string `json:"contenido" binding:"required"`
}

type Handler struct {
	svc chat.IChatService
}

func New(svc chat.IChatService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/mensajes", h.send)
	r.GET("/mensajes/:idUsuario/:idOtro", h.conversation)
}

func (h *Handler) send(c *gin.Context) {
	var body SendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "id_emisor, id_receptor y contenido son obligatorios")
		return
	}

	m, err := h.svc.Send(c.Request.Context(), body.SenderID, body.RecipientID, body.Body)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"mensaje": m})
}

func (h *Handler) conversation(c *gin.Context) {
	msgs, err := h.svc.Conversation(c.Request.Context(), c.Param("idUsuario"), c.Param("idOtro"))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"mensajes": msgs})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, chat.ErrMissingFields) {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	resp.Fail(c, http.StatusInternalServerError, err.Error())
}
