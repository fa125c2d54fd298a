package dto

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64,alphanum"`
	DisplayName string `json:"display_name" validate:"required,max=255"`
	Password    string `json:"password" validate:"required,min=8"`
}

type RegisterResponse struct {
	Id       uint   `json:"id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserData `json:"user"`
}

type UserData struct {
	Id          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
