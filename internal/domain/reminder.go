package domain

import "time"

// PendingItem is one entry awaiting moderation, abstracted over the two
// moderation queues (portraits and shared-gallery photo groups).
//
// For grouped gallery submissions one PendingItem represents the whole group:
// ItemCount is the number of photos and SubmittedAt is the oldest photo's
// submission time, so the group's age is determined by its oldest member.
type PendingItem struct {
	ResourceID     string
	SubmitterLabel string
	ItemCount      int
	SubmittedAt    time.Time

	// DaysWaiting is derived on every scan, never stored. Whole elapsed
	// days since SubmittedAt, truncated (2 days 23 hours -> 2).
	DaysWaiting int
}

// ReminderMilestone reports whether an item that has waited daysWaiting whole
// days has reached a reminder milestone. Milestones fall on day 3 and every
// 2 days after (3, 5, 7, ...), so long-pending items escalate without daily
// notification spam. The returned milestone equals daysWaiting when reached.
//
// The cadence is a product decision; it lives here so both queues share one
// predicate and a cadence change touches one place.
func ReminderMilestone(daysWaiting int) (int, bool) {
	if daysWaiting >= 3 && daysWaiting%2 == 1 {
		return daysWaiting, true
	}
	return 0, false
}

// ReminderPayload is the JSON body handed to the push transport.
type ReminderPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// ReminderLedgerEntry marks a dispatched reminder. Existence of a row for
// (EventType, ResourceID) is the at-most-once guard: the entry is written
// exactly once, never updated, and only ever checked for existence.
// EventType encodes both the queue and the milestone day, so the day-3 and
// day-5 reminders for the same resource are independent entries.
type ReminderLedgerEntry struct {
	EventType  string
	ResourceID string
	SentAt     time.Time
}
