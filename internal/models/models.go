package models

// Role values stored on users and carried in token claims
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"` // persisted in the document, never sent to clients
	Role         string `json:"role"`     // "user" or "admin", default "user"
}

// PublicUser is the projection of a user returned to clients (no password hash)
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public returns the client-facing projection of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// Comment represents a single comment on a news item.
// Comments are append-only: once created they are never edited or reordered.
type Comment struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`  // snapshot of the author's username at creation
	Timestamp string `json:"timestamp"` // ISO-8601 creation instant
}

// NewsItem represents a news post with its comments
type NewsItem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"` // snapshot of the author's username at creation
	Comments   []Comment `json:"comments"`
}

// Database is the whole persisted document: a single JSON file with
// top-level users and news arrays. News is kept newest-first.
type Database struct {
	Users []User     `json:"users"`
	News  []NewsItem `json:"news"`
}

// NewsPage is the response for a paginated news listing
type NewsPage struct {
	Data       []NewsItem `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}
