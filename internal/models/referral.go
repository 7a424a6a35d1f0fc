package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Derived referral code states: the cross product of used/unused and
// valid/expired. There are no other states and none of them is stored.
const (
	ReferralUsedValid     = "used and valid"
	ReferralUsedExpired   = "used and expired"
	ReferralUnusedValid   = "unused and valid"
	ReferralUnusedExpired = "unused and expired"
)

// ReferralCode is an admin-issued credential tied to a candidate email.
type ReferralCode struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	CandidateEmail string             `bson:"candidate_email" json:"candidateEmail"`
	IssuedBy       primitive.ObjectID `bson:"issued_by" json:"issuedBy"`
	IsUsed         bool               `bson:"is_used" json:"isUsed"`
	UsedAt         time.Time          `bson:"used_at,omitempty" json:"usedAt,omitempty"`
	ExpiresAt      time.Time          `bson:"expires_at" json:"expiresAt"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

// StatusAt derives the four-way used/expired status at the given instant.
func (rc ReferralCode) StatusAt(now time.Time) string {
	expired := now.After(rc.ExpiresAt)
	switch {
	case rc.IsUsed && expired:
		return ReferralUsedExpired
	case rc.IsUsed:
		return ReferralUsedValid
	case expired:
		return ReferralUnusedExpired
	default:
		return ReferralUnusedValid
	}
}
