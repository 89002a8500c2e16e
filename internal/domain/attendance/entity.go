package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusSick    Status = "sick"
	StatusLeave   Status = "leave"
	StatusPending Status = "pending"
)

// ValidStatuses lists every status a record may carry, in report order.
var ValidStatuses = []string{"present", "absent", "sick", "leave", "pending"}

// Attendance is the single observation of one student on one calendar day.
// (StudentID, Date) is unique across the whole table.
type Attendance struct {
	ID         string
	StudentID  string
	ClassID    string
	Date       time.Time
	Status     Status
	CheckIn    *time.Time
	CheckOut   *time.Time
	Notes      *string
	RecordedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined for responses
	StudentName *string
	ClassName   *string
}
