package domain

import "time"

// User is a registered account. The password hash never leaves the store
// layer through JSON responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the verified caller extracted from a session token. Handlers
// receive it explicitly; it is never attached to shared request state.
type Identity struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// RecordFields are the caller-mutable fields of a FoodRecord. Absent tags
// decode to empty strings, which is also their stored default.
type RecordFields struct {
	ShopName    string `json:"shopName"`
	Address     string `json:"address"`
	DishName    string `json:"dishName"`
	CuisineTags string `json:"cuisineTags"`
	RegionTags  string `json:"regionTags"`
}

// FoodRecord is one dining entry owned by a single user. ID, OwnerID and
// CreatedAt are assigned by the store and immutable afterwards.
type FoodRecord struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	ShopName    string    `json:"shopName"`
	Address     string    `json:"address"`
	DishName    string    `json:"dishName"`
	CuisineTags string    `json:"cuisineTags"`
	RegionTags  string    `json:"regionTags"`
	CreatedAt   time.Time `json:"createdAt"`
}
