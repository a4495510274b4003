package store

import (
	"time"

	"gorm.io/gorm"
)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"size:191;not null;uniqueIndex"`
	Password string `gorm:"not null"` // hex digest, never plaintext
	Role     string `gorm:"not null;index"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// SymptomSchema represents the database schema for the symptoms table.
type SymptomSchema struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Description string     `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"column:date;not null"`
	UserID      int64      `gorm:"not null;index"`
	User        UserSchema `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the SymptomSchema model.
func (SymptomSchema) TableName() string {
	return "symptoms"
}

// RecommendationSchema represents the database schema for the recommendations table.
type RecommendationSchema struct {
	ID        int64         `gorm:"primaryKey;autoIncrement"`
	Text      string        `gorm:"not null"`
	CreatedAt time.Time     `gorm:"column:date;not null"`
	UserID    int64         `gorm:"not null;index"`
	SymptomID int64         `gorm:"not null;index"`
	User      UserSchema    `gorm:"foreignKey:UserID"`
	Symptom   SymptomSchema `gorm:"foreignKey:SymptomID"`
}

// TableName specifies the table name for the RecommendationSchema model.
func (RecommendationSchema) TableName() string {
	return "recommendations"
}

// AppointmentSchema represents the database schema for the appointments table.
type AppointmentSchema struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	Date      string     `gorm:"not null"`
	PatientID int64      `gorm:"not null;index"`
	DoctorID  int64      `gorm:"not null;index"`
	Patient   UserSchema `gorm:"foreignKey:PatientID"`
	Doctor    UserSchema `gorm:"foreignKey:DoctorID"`
}

// TableName specifies the table name for the AppointmentSchema model.
func (AppointmentSchema) TableName() string {
	return "appointments"
}

// Migrate creates the four clinic tables and their foreign keys if they do not exist.
// Running it against an up-to-date schema is a no-op.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserSchema{},
		&SymptomSchema{},
		&RecommendationSchema{},
		&AppointmentSchema{},
	)
}
