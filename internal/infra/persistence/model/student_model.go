package model

import "time"

// StudentModel mirrors the 'students' table.
// Attendance and Grades hold JSON text written by the client.
type StudentModel struct {
	SID        string `gorm:"column:sid;type:varchar(255);primaryKey"`
	Name       string `gorm:"type:varchar(255)"`
	StudentID  string `gorm:"column:student_id;type:varchar(255)"`
	Level      string `gorm:"type:varchar(255)"`
	Email      string `gorm:"type:varchar(255)"`
	Attendance string `gorm:"type:text;not null;default:'{}'"`
	Grades     string `gorm:"type:text;not null;default:'{}'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (StudentModel) TableName() string {
	return "students"
}
