package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateUser = errors.New("user already exists")
)

// MutationResult reports the outcome of a write in the shape the web
// client already understands.
type MutationResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	InsertedID    string `json:"insertedId,omitempty"`
	MatchedCount  *int64 `json:"matchedCount,omitempty"`
	ModifiedCount *int64 `json:"modifiedCount,omitempty"`
	UpsertedCount *int64 `json:"upsertedCount,omitempty"`
	UpsertedID    string `json:"upsertedId,omitempty"`
	DeletedCount  *int64 `json:"deletedCount,omitempty"`
	Message       string `json:"message,omitempty"`
}

func Inserted(id string) *MutationResult {
	return &MutationResult{Acknowledged: true, InsertedID: id}
}

func Rejected(message string) *MutationResult {
	return &MutationResult{Acknowledged: false, Message: message}
}

func Updated(matched, modified, upserted int64, upsertedID string) *MutationResult {
	return &MutationResult{
		Acknowledged:  true,
		MatchedCount:  &matched,
		ModifiedCount: &modified,
		UpsertedCount: &upserted,
		UpsertedID:    upsertedID,
	}
}

func Deleted(count int64) *MutationResult {
	return &MutationResult{Acknowledged: true, DeletedCount: &count}
}
