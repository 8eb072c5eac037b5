package request

// Length is checked by the comment service after trimming.
type CreateCommentRequest struct {
	Comment string `json:"comment"`
}
