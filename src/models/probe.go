package models

import "time"

// ConnectionTest rows are written and removed by the store write probe.
type ConnectionTest struct {
	ID        string    `gorm:"primarykey;size:64"`
	Test      bool      `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
}

func (ConnectionTest) TableName() string {
	return "connection_test"
}
