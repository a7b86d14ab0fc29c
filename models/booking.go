package models

import "time"

// Slot names a single field collected during the booking dialogue.
type Slot string

const (
	SlotName  Slot = "name"
	SlotEmail Slot = "email"
	SlotPhone Slot = "phone"
	SlotType  Slot = "booking_type"
	SlotDate  Slot = "date"
	SlotTime  Slot = "time"
)

// RequiredSlots lists the booking fields in the order they are collected.
var RequiredSlots = []Slot{SlotName, SlotEmail, SlotPhone, SlotType, SlotDate, SlotTime}

// BookingDraft is the mutable partial record built up during slot collection.
// A field is marked in Valid only after it passes its validator.
type BookingDraft struct {
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	BookingType string        `json:"bookingType"`
	Date        string        `json:"date"` // YYYY-MM-DD
	Time        string        `json:"time"` // HH:MM, 24-hour
	Valid       map[Slot]bool `json:"valid"`
}

func NewBookingDraft() *BookingDraft {
	return &BookingDraft{Valid: make(map[Slot]bool)}
}

// Complete reports whether every required slot holds a validated value.
func (d *BookingDraft) Complete() bool {
	for _, slot := range RequiredSlots {
		if !d.Valid[slot] {
			return false
		}
	}
	return true
}

// Booking is the immutable, fully-validated record persisted at confirmation.
// The ID is assigned by the repository, not by the dialogue core.
type Booking struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone" json:"phone"`
	BookingType string    `bson:"bookingType" json:"bookingType"`
	Date        string    `bson:"date" json:"date"`
	Time        string    `bson:"time" json:"time"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
