package model

type Post struct {
	ID        string `json:"id"`
	Author    User   `json:"author"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Likes     uint64 `json:"likes"`
	Liked     bool   `json:"liked,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type CreatePostResponse struct {
	ID string `json:"id"`
}

type GetPostsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPostsResponse struct {
	Posts []Post `json:"posts,omitempty"`
}

type GetPostRequest struct {
	ID string `json:"id"`
}

type GetPostResponse Post

type LikePostRequest struct {
	ID string `json:"id"`
}

type LikePostResponse struct{}

type UnlikePostRequest struct {
	ID string `json:"id"`
}

type UnlikePostResponse struct{}

type DeletePostRequest struct {
	ID string `json:"id"`
}

type DeletePostResponse struct{}
