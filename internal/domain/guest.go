package domain

import "time"

// Guest is one persisted RSVP response. ID and CreatedAt are owned by
// the storage backend; CreatedAt is set once at insert and never touched
// again.
type Guest struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Attending bool      `json:"attending"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfirmationReq is the raw form payload. Attending stays nil while the
// visitor has not picked an answer; a nil value is only legal as that
// pre-submission state and is rejected by validation.
type ConfirmationReq struct {
	Name      string `json:"name"`
	Attending *bool  `json:"attending"`
	Message   string `json:"message"`
}

// ValidatedGuest is a submission that passed validation and
// sanitization. Message is nil when empty after trimming.
type ValidatedGuest struct {
	Name      string
	Attending bool
	Message   *string
}

// GuestPatch is a partial update. Nil fields are left untouched; a
// present-but-empty Message clears the stored message to null.
type GuestPatch struct {
	Name      *string `json:"name,omitempty"`
	Attending *bool   `json:"attending,omitempty"`
	Message   *string `json:"message,omitempty"`
}

// Patch converts a full resubmission into the update applied to the
// device's existing record.
func (v ValidatedGuest) Patch() GuestPatch {
	msg := ""
	if v.Message != nil {
		msg = *v.Message
	}
	return GuestPatch{
		Name:      &v.Name,
		Attending: &v.Attending,
		Message:   &msg,
	}
}

type GuestStats struct {
	Total     int `json:"total"`
	Attending int `json:"attending"`
}

func ComputeStats(guests []Guest) GuestStats {
	s := GuestStats{Total: len(guests)}
	for _, g := range guests {
		if g.Attending {
			s.Attending++
		}
	}
	return s
}
