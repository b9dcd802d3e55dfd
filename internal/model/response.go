package model

import "time"

// FileRef is an opaque reference to an uploaded evidence file. File
// content lives in external storage; the service only tracks metadata.
type FileRef struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	SizeBytes   int64     `json:"sizeBytes,omitempty" bson:"sizeBytes,omitempty"`
	ContentType string    `json:"contentType,omitempty" bson:"contentType,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt,omitempty" bson:"uploadedAt,omitempty"`
}

// Response is a user's answer to one question
type Response struct {
	QuestionID string      `json:"questionId" bson:"questionId"`
	Value      interface{} `json:"value" bson:"value"`
	Evidence   []FileRef   `json:"evidence,omitempty" bson:"evidence,omitempty"`
	UpdatedAt  time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// HasValue reports whether the response carries a defined answer.
// Empty text counts as unanswered.
func (r Response) HasValue() bool {
	if r.Value == nil {
		return false
	}
	if s, ok := r.Value.(string); ok {
		return s != ""
	}
	return true
}

// ResponseSet maps question IDs to their recorded responses
type ResponseSet map[string]Response

// Answered reports whether a defined response exists for the question
func (rs ResponseSet) Answered(questionID string) bool {
	r, ok := rs[questionID]
	return ok && r.HasValue()
}

// Clone returns a shallow copy so callers can mutate without
// affecting the original map.
func (rs ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}
