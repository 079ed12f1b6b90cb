package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// MinReviewLength is the shortest review body the platform accepts.
const MinReviewLength = 10

// MaxCommentLength bounds comment and reply bodies.
const MaxCommentLength = 2000

// ValidationError is returned before any request is sent when input is
// rejected locally.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateRating accepts 0 to 5 in steps of 0.5.
func ValidateRating(r float64) error {
	if math.IsNaN(r) || r < 0 || r > 5 {
		return &ValidationError{Field: "rating", Message: "must be between 0 and 5"}
	}
	if math.Mod(r*2, 1) != 0 {
		return &ValidationError{Field: "rating", Message: "must be a multiple of 0.5"}
	}
	return nil
}

// ValidateReview checks the minimum review length.
func ValidateReview(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < MinReviewLength {
		return &ValidationError{
			Field:   "review",
			Message: fmt.Sprintf("must be at least %d characters", MinReviewLength),
		}
	}
	return nil
}

// ValidateComment rejects empty and oversized comments.
func ValidateComment(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &ValidationError{Field: "comment", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return &ValidationError{
			Field:   "comment",
			Message: fmt.Sprintf("must be at most %d characters", MaxCommentLength),
		}
	}
	return nil
}

// ValidatePost rejects empty posts.
func ValidatePost(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "post", Message: "must not be empty"}
	}
	return nil
}
