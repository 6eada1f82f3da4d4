package dto

type UserRequest struct {
	Login      string `json:"login"`
	Email      string `json:"email"`
	Password   string `json:"pswd"`
	AdminToken string `json:"token"`
	IsAdmin    bool   `json:"is_admin"`
}

type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"pswd"`
}
