package userhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"truekki/internal/http/resp"
	"truekki/internal/services/user"
)

type Handler struct {
	svc user.IUserService
}

func New(svc user.IUserService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/registro", h.register)
	r.POST("/login", h.login)
	r.PUT("/usuario/:id", h.updateProfile)
}

func (h *Handler) register(c *gin.Context) {
	var body RegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "nombre, email y contraseña son obligatorios")
		return
	}

	id, err := h.svc.Register(c.Request.Context(), body.Name, body.Email,
		body.Password, body.ConfirmPassword, body.Phone, body.Address)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"id_usuario": id, "message": "Usuario registrado exitosamente"})
}

func (h *Handler) login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "email y contraseña son obligatorios")
		return
	}

	u, token, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{
		"token": token,
		"usuario": gin.H{
			"id":     u.ID,
			"nombre": u.Name,
			"email":  u.Email,
		},
	})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var body UpdateProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "nombre es obligatorio")
		return
	}

	err := h.svc.UpdateProfile(c.Request.Context(), c.Param("id"),
		body.Name, body.Phone, body.Address, body.Bio)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"message": "Información actualizada correctamente"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrMissingFields),
		errors.Is(err, user.ErrInvalidDomain),
		errors.Is(err, user.ErrPasswordMismatch),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrEmailTaken):
		resp.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrBadCredentials),
		errors.Is(err, user.ErrAccountInactive):
		resp.Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, user.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, err.Error())
	default:
		resp.Fail(c, http.StatusInternalServerError, err.Error())
	}
}
