package models

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // optional, defaults to "user"
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// CreateNewsRequest represents a news creation request
type CreateNewsRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdateNewsRequest represents a partial news update. An empty string
// means "field not provided": the stored value is kept.
type UpdateNewsRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CommentRequest represents a comment creation request
type CommentRequest struct {
	Text string `json:"text"`
}
