package identity

// AuthRequest carries the credentials of register and login calls.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Escapes  int    `json:"escapes"`
	Runs     int    `json:"runs"`
	Token    string `json:"token"`
}
