package models

import "time"

// UnlockLog records an employer's one-time, credit-charged reveal of a
// student's contact details. The (employer, student) pair is unique so a
// repeat unlock can never charge twice.
type UnlockLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployerID uint      `gorm:"not null;uniqueIndex:idx_unlocks_employer_student" json:"employer_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_unlocks_employer_student" json:"student_id"`
	CreatedAt  time.Time `json:"created_at"`
	Employer   User      `gorm:"foreignKey:EmployerID" json:"-"`
	Student    User      `gorm:"foreignKey:StudentID" json:"student"`
}
