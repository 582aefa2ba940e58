package entity

import "time"

// OtpRecord is the stored one-time code for a single identity.
type OtpRecord struct {
	// Code is the issued numeric code.
	Code string
	// ExpiresAt is the wall-clock instant after which the code is invalid.
	ExpiresAt time.Time
	// Attempts counts failed verifications against this record.
	Attempts int
}
