package models

// Identity is the set of claims carried by a verified session token.
// Sessions are stateless: nothing is stored server-side, expiry is the
// only invalidation mechanism.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CanMutate reports whether the identity may edit or delete the given
// news item: admins may mutate anything, others only their own posts.
// Commenting is deliberately not gated by this check.
func (i Identity) CanMutate(item *NewsItem) bool {
	return i.Role == RoleAdmin || i.ID == item.AuthorID
}
