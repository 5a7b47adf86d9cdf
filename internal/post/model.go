package post

import "time"

//go:generate go run ../../tools/gen_models_registry.go .

// Post is a user-authored article. PostID is supplied by the caller on creation
// and UserID is the owner, fixed for the lifetime of the row.
type Post struct {
	PostID    string    `gorm:"primaryKey;size:64" json:"postId"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Likes owns the likes.post_id foreign key; rows go with their post.
	Likes []Like `gorm:"foreignKey:PostID;references:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// Like records that some user liked a post. The service only ever counts them.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"size:64;index;not null" json:"postId"`
	UserID    string    `gorm:"size:64;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the list projection of a post: no content, plus its like count.
type Summary struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	LikeCount int64     `json:"likeCount"`
}

type CreateInput struct {
	PostID  string
	Title   string
	Content string
}

type UpdateInput struct {
	Title   string
	Content string
}
