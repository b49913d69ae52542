package entity

// Student is one roster record, keyed by SID.
//
// Attendance and Grades are opaque structured payloads owned by the client.
// The server stores and returns them without interpreting their shape.
type Student struct {
	SID        string
	Name       string
	ExternalID string // institution-assigned student number, "id" on the wire
	Level      string
	Email      string
	Attendance any
	Grades     any
}

// EmptyPayload is what an absent or unreadable attendance/grades payload decodes to.
func EmptyPayload() map[string]any {
	return map[string]any{}
}

// Normalize fills nil payloads with an empty object.
func (s *Student) Normalize() {
	if s.Attendance == nil {
		s.Attendance = EmptyPayload()
	}
	if s.Grades == nil {
		s.Grades = EmptyPayload()
	}
}
