package models

import (
	"time"

	"github.com/lib/pq"
)

// ODStatus is the three-valued review state of an OD request.
type ODStatus string

const (
	ODStatusPending  ODStatus = "pending"
	ODStatusApproved ODStatus = "approved"
	ODStatusRejected ODStatus = "rejected"
)

// Valid reports whether the status is one a reviewer may set.
func (s ODStatus) Valid() bool {
	return s == ODStatusApproved || s == ODStatusRejected
}

// ODRequest is a student's on-duty absence request for specific periods
// on a single date. A request is reviewed at most once; resubmission is
// a new row.
type ODRequest struct {
	ID          string        `db:"id" json:"id"`
	UserID      string        `db:"user_id" json:"user_id"`
	Year        int           `db:"year" json:"year"`
	Periods     pq.Int64Array `db:"periods" json:"periods"`
	Date        time.Time     `db:"date" json:"date"`
	Department  string        `db:"department" json:"department"`
	Category    string        `db:"od_category" json:"od_category"`
	Status      ODStatus      `db:"status" json:"status"`
	Remarks     string        `db:"remarks" json:"remarks"`
	ReviewedBy  *string       `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
	SubmittedAt time.Time     `db:"submitted_at" json:"submitted_at"`
}

// ODRequestDetail joins the requester's name and email onto a request row
// for the admin review queue and report exports.
type ODRequestDetail struct {
	ODRequest
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

// ODFilter captures listing criteria for OD request queries.
type ODFilter struct {
	Department string
	Status     *ODStatus
	Page       int
	PageSize   int
}
