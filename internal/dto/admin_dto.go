package dto

// RejectSubmissionRequest is the payload for rejecting a pending submission.
type RejectSubmissionRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}
