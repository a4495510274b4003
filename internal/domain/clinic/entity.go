package clinic

import "time"

// Symptom is a free-text complaint submitted by a patient.
type Symptom struct {
	ID          int64
	Description string
	CreatedAt   time.Time
	UserID      int64
}

// Recommendation is a doctor's answer to a specific symptom.
// UserID always equals the owner of SymptomID.
type Recommendation struct {
	ID        int64
	Text      string
	CreatedAt time.Time
	UserID    int64
	SymptomID int64
}

// Appointment books a patient with a doctor on a given date.
type Appointment struct {
	ID        int64
	Date      string
	PatientID int64
	DoctorID  int64
}

// SymptomWithPatient is a symptom joined with its owner's name.
type SymptomWithPatient struct {
	Symptom
	PatientName string
}

// RecommendationWithSymptom is a recommendation joined with the symptom it answers.
type RecommendationWithSymptom struct {
	Recommendation
	SymptomDescription string
}

// AppointmentWithName is an appointment joined with the other party's name.
type AppointmentWithName struct {
	Appointment
	CounterpartName string
}
