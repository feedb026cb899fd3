package inbound

type RegisterRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
	LangKey  string `json:"langKey"`
}

type PublicUserResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}
