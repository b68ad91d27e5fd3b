package dto

import (
	"time"

	"critichub/internal/models"
)

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToReviewResponse(r *models.Review) *ReviewResponse {
	resp := &ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
	if r.Title != nil {
		resp.Title = r.Title.Name
	}
	if r.Author != nil {
		resp.Author = r.Author.Username
	}
	return resp
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToCommentResponse(c *models.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		PubDate: c.PubDate,
	}
	if c.Author != nil {
		resp.Author = c.Author.Username
	}
	return resp
}
