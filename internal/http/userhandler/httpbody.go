package userhandler

type RegisterBody struct {
	Name            string `json:"nombre" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"telefono"`
	Address         string `json:"direccion"`
}

type LoginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileBody struct {
	Name    string `json:"nombre" binding:"required"`
	Phone   string `json:"numero_telefono"`
	Address string `json:"direccion"`
	Bio     string `json:"bio"`
}
