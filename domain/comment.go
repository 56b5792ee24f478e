package domain

type CommentAuthor struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
}

// Comment is a note attached to a task.
type Comment struct {
	ID        int64         `json:"id"`
	TaskID    int64         `json:"task_id"`
	UserID    int64         `json:"user_id"`
	Content   string        `json:"content"`
	CreatedAt Timestamp     `json:"created_at"`
	User      CommentAuthor `json:"user"`
}

type CommentCreate struct {
	Content string `json:"content"`
}
