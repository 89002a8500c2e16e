package roster

// StudentInfo carries the display fields reports join onto attendance data.
type StudentInfo struct {
	ID        string
	Name      string
	NIS       string
	NISN      *string
	ClassID   string
	ClassName string
}
