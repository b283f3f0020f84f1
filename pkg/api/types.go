package api

// CredentialsRequest is the body accepted by both register and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful registration
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserRow is one entry in the protected user listing
type UserRow struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// RootResponse is the unauthenticated liveness body at GET /
type RootResponse struct {
	API string `json:"api"`
}
