package producthandler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"truekki/internal/http/resp"
	"truekki/internal/services/product"
)

type Handler struct {
	svc product.IProductService
}

func New(svc product.IProductService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/productos", h.list)
	r.POST("/publicar-producto", h.publish)
	r.GET("/producto/:id", h.info)
	r.PUT("/producto/:id", h.update)
	r.DELETE("/producto/:id", h.delete)
	r.PUT("/marcar-vendido/:id", h.markSold)
	r.GET("/productos-usuario/:id", h.byUser)
	r.POST("/subir-imagen-producto/:id", h.uploadImage)
	r.GET("/imagen-producto/:id", h.image)

	r.POST("/favoritos", h.addFavorite)
	r.GET("/favoritos/:idUsuario", h.favorites)
	r.DELETE("/favoritos", h.removeFavorite)

	r.POST("/calificar", h.rate)
	r.GET("/calificaciones/:idProducto", h.rating)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"productos": list})
}

func (h *Handler) publish(c *gin.Context) {
	var body PublishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Todos los campos son obligatorios")
		return
	}

	id, err := h.svc.Publish(c.Request.Context(), product.Listing{
		Title:        body.Title,
		Category:     body.Category,
		Condition:    body.Condition,
		Description:  body.Description,
		Price:        body.Price,
		City:         body.City,
		Neighborhood: body.Neighborhood,
		Contact:      body.Contact,
		OwnerID:      body.OwnerID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"id": id, "message": "Producto publicado exitosamente"})
}

func (h *Handler) info(c *gin.Context) {
	p, seller, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"producto": p, "vendedor": seller})
}

// update takes multipart form data; the photo is optional and replaces the
// stored one only when present.
func (h *Handler) update(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("precio"), 64)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "precio inválido")
		return
	}
	l := product.Listing{
		Title:        c.PostForm("titulo"),
		Category:     c.PostForm("categoria"),
		Condition:    c.PostForm("estado"),
		Description:  c.PostForm("descripcion"),
		Price:        price,
		City:         c.PostForm("ciudad"),
		Neighborhood: c.PostForm("barrio"),
		Contact:      c.PostForm("contacto"),
	}

	var (
		image    []byte
		filename string
	)
	if fileHeader, err := c.FormFile("foto"); err == nil {
		image, filename, err = readUpload(fileHeader)
		if err != nil {
			resp.Fail(c, http.StatusBadRequest, "no se pudo leer la foto")
			return
		}
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), l, image, filename); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"message": "Producto actualizado correctamente"})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"message": "Producto eliminado exitosamente", "deletedId": id})
}

func (h *Handler) markSold(c *gin.Context) {
	var body AvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "El campo disponible debe ser true o false")
		return
	}

	if err := h.svc.SetAvailability(c.Request.Context(), c.Param("id"), *body.Available); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"message": "Estado del producto actualizado"})
}

func (h *Handler) byUser(c *gin.Context) {
	list, err := h.svc.ByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"productos": list})
}

func (h *Handler) uploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("foto")
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "No se ha subido ninguna imagen")
		return
	}
	image, filename, err := readUpload(fileHeader)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "no se pudo leer la foto")
		return
	}

	if err := h.svc.UploadImage(c.Request.Context(), c.Param("id"), image, filename); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"message": "Imagen subida exitosamente"})
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

func (h *Handler) addFavorite(c *gin.Context) {
	var body FavoriteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "id_usuario e id_producto son obligatorios")
		return
	}
	if err := h.svc.AddFavorite(c.Request.Context(), body.UserID, body.ProductID); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, nil)
}

func (h *Handler) favorites(c *gin.Context) {
	list, err := h.svc.Favorites(c.Request.Context(), c.Param("idUsuario"))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"productos": list})
}

func (h *Handler) removeFavorite(c *gin.Context) {
	var body FavoriteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "id_usuario e id_producto son obligatorios")
		return
	}
	if err := h.svc.RemoveFavorite(c.Request.Context(), body.UserID, body.ProductID); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, nil)
}

func (h *Handler) rate(c *gin.Context) {
	var body RateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c, http.StatusBadRequest, "id_usuario, id_producto y puntuacion son obligatorios")
		return
	}
	if err := h.svc.Rate(c.Request.Context(), body.UserID, body.ProductID, body.Score); err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, nil)
}

func (h *Handler) rating(c *gin.Context) {
	r, err := h.svc.Rating(c.Request.Context(), c.Param("idProducto"))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"calificacion": r})
}

func readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, product.ErrMissingFields),
		errors.Is(err, product.ErrDescriptionTooShort),
		errors.Is(err, product.ErrInvalidScore):
		resp.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, err.Error())
	default:
		resp.Fail(c, http.StatusInternalServerError, err.Error())
	}
}
