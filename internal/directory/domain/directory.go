package domain

import "time"

// Room owns a pool of addresses.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Company is a tenant that borrows addresses from the room it is assigned to.
type Company struct {
	ID        string
	Name      string
	Email     string
	RoomID    *string
	CreatedAt time.Time
}

// CompanyWithRoom is a company resolved together with its room; Room is nil when none is assigned.
type CompanyWithRoom struct {
	Company *Company
	Room    *Room
}

// RoomID returns the resolved room id, or "" when the company has no room.
func (c *CompanyWithRoom) RoomID() string {
	if c == nil || c.Room == nil {
		return ""
	}
	return c.Room.ID
}
