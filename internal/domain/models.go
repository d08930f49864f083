// Package domain defines the persistence models for episodes, fact checks,
// comments, votes, the karma ledger, and notifications. These types are
// mapped with GORM and form the core data layer of the fact-checking
// application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Subject kinds for votes. A vote always targets exactly one votable item,
// either a fact check or a comment.
const (
	SubjectFactCheck = "fact_check"
	SubjectComment   = "comment"
)

// Episode is the unit of content fact checks attach to (one podcast episode
// transcript). Only the denormalized FactCheckCount is maintained here; the
// transcript itself lives outside this service.
type Episode struct {
	ID             string    `json:"id"               gorm:"type:char(36);primaryKey"`
	Title          string    `json:"title"            gorm:"type:varchar(255);not null"`
	FactCheckCount int       `json:"fact_check_count" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for Episode.
func (Episode) TableName() string { return "episodes" }

// FactCheck is a community-submitted claim assessment on a transcript
// passage. Vote counters are denormalized and mutated exclusively through
// the vote service transaction; Status is mutated only by moderation.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - EpisodeID: owning episode; indexed for per-episode listings.
//   - SubmittedBy: identifier of the submitting user.
//   - Claim / Source: the checked statement and its supporting source.
//   - Status: validation status (see ValidationStatus).
//   - Upvotes / Downvotes: denormalized counters, never negative.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type FactCheck struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	EpisodeID   string         `json:"episode_id"   gorm:"type:char(36);not null;index:idx_episode_factchecks"`
	SubmittedBy string         `json:"submitted_by" gorm:"type:varchar(64);not null;index"`
	Claim       string         `json:"claim"        gorm:"type:text;not null"`
	Source      string         `json:"source"       gorm:"type:text"`
	Status      string         `json:"status"       gorm:"type:varchar(32);not null;default:'UNVALIDATED';check:status IN ('UNVALIDATED','VALIDATED_TRUE','VALIDATED_FALSE','VALIDATED_CONTROVERSIAL')"`
	Upvotes     int            `json:"upvotes"      gorm:"not null;default:0;check:upvotes >= 0"`
	Downvotes   int            `json:"downvotes"    gorm:"not null;default:0;check:downvotes >= 0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for FactCheck.
func (FactCheck) TableName() string { return "fact_checks" }

// Comment is a threaded discussion entry under a fact check. Deletion is a
// soft tombstone that keeps the thread structure intact; the content is
// replaced rather than removed.
type Comment struct {
	ID              string         `json:"id"                gorm:"type:char(36);primaryKey"`
	FactCheckID     string         `json:"fact_check_id"     gorm:"type:char(36);not null;index:idx_factcheck_comments"`
	UserID          string         `json:"user_id"           gorm:"type:varchar(64);not null;index"`
	Content         string         `json:"content"           gorm:"type:text;not null"`
	ParentCommentID *string        `json:"parent_comment_id" gorm:"type:char(36);index"`
	Upvotes         int            `json:"upvotes"           gorm:"not null;default:0;check:upvotes >= 0"`
	Downvotes       int            `json:"downvotes"         gorm:"not null;default:0;check:downvotes >= 0"`
	IsDeleted       bool           `json:"is_deleted"        gorm:"not null;default:false"`
	ModeratorReason string         `json:"moderator_reason,omitempty" gorm:"type:text"`
	DeletedBy       string         `json:"deleted_by,omitempty"       gorm:"type:varchar(64)"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Vote is the single vote slot for one user on one votable item. At most one
// row may exist per (subject_kind, subject_id, user_id); the unique index is
// the load-bearing invariant of the vote store. Value is -1 or +1 — "no
// vote" is represented by row absence, never by a zero value.
type Vote struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	SubjectKind string    `json:"subject_kind" gorm:"type:varchar(16);not null;check:subject_kind IN ('fact_check','comment');uniqueIndex:ux_vote_subject_user,priority:1"`
	SubjectID   string    `json:"subject_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_vote_subject_user,priority:2"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);not null;index;uniqueIndex:ux_vote_subject_user,priority:3"`
	Value       int       `json:"value"        gorm:"not null;check:value IN (-1,1)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Vote.
func (Vote) TableName() string { return "votes" }

// KarmaHistoryEntry is one immutable row of the karma ledger. Entries are
// append-only: nothing in this system updates or deletes them. The unique
// index over (user_id, action, target_id) is the de-duplication guarantee
// that prevents awarding the same event twice.
type KarmaHistoryEntry struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"   gorm:"type:varchar(64);not null;index;uniqueIndex:ux_karma_user_action_target,priority:1"`
	Action    string    `json:"action"    gorm:"type:varchar(64);not null;uniqueIndex:ux_karma_user_action_target,priority:2"`
	Points    int       `json:"points"    gorm:"not null"`
	TargetID  string    `json:"target_id" gorm:"type:char(36);not null;uniqueIndex:ux_karma_user_action_target,priority:3"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for KarmaHistoryEntry.
func (KarmaHistoryEntry) TableName() string { return "karma_history" }

// UserKarma is the running per-user total derived from the ledger. Rows are
// created lazily with StartingKarma on first touch. TotalKarma always equals
// StartingKarma plus the sum of the user's ledger points once in-flight
// appends settle.
type UserKarma struct {
	UserID      string    `json:"user_id"     gorm:"type:varchar(64);primaryKey"`
	TotalKarma  int       `json:"total_karma" gorm:"not null"`
	LastUpdated time.Time `json:"last_updated"`
}

// TableName returns the database table name for UserKarma.
func (UserKarma) TableName() string { return "user_karma" }

// Notification types.
const (
	NotificationCommentReply    = "COMMENT_REPLY"
	NotificationModeration      = "MODERATION"
	NotificationFactCheckUpdate = "FACT_CHECK_UPDATE"
	NotificationVoteMilestone   = "VOTE_MILESTONE"
)

// Notification is a per-user inbox row created by comment replies and
// moderation actions. Delivery (push, e-mail) is out of scope; this service
// only records and lists.
type Notification struct {
	ID          string    `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"user_id"       gorm:"type:varchar(64);not null;index:idx_user_notifications"`
	FactCheckID string    `json:"fact_check_id" gorm:"type:char(36)"`
	Message     string    `json:"message"       gorm:"type:text;not null"`
	Type        string    `json:"type"          gorm:"type:varchar(32);not null;check:type IN ('COMMENT_REPLY','MODERATION','FACT_CHECK_UPDATE','VOTE_MILESTONE')"`
	Read        bool      `json:"read"          gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// Idempotency records the result of a previously processed mutating request,
// keyed by (user_id, subject_id, key). It enables safe retries for vote
// submissions without re-executing side effects.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_subject_key,priority:1"`
	SubjectID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_subject_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_subject_key,priority:3"`
	ResultID  string    `gorm:"type:TEXT NOT NULL;default:''"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
