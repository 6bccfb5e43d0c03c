package domain

import "time"

// DashboardStats holds the aggregate figures shown on the dashboard
type DashboardStats struct {
	TotalCourses     int     `json:"totalCourses"`
	TotalStudents    int     `json:"totalStudents"`
	TotalEnrollments int     `json:"totalEnrollments"`
	TotalRevenue     float64 `json:"totalRevenue"`
	PendingPayments  float64 `json:"pendingPayments"`
	ActiveCourses    int     `json:"activeCourses"`
}

// ActivityKind distinguishes entries of the recent activity feed
type ActivityKind string

const (
	ActivityPayment    ActivityKind = "payment"
	ActivityEnrollment ActivityKind = "enrollment"
)

// ActivityItem is one entry of the recent activity feed
type ActivityItem struct {
	Kind        ActivityKind `json:"kind"`
	ID          string       `json:"id"`
	StudentName string       `json:"studentName"`
	CourseName  string       `json:"courseName"`
	Amount      float64      `json:"amount"`
	Date        time.Time    `json:"date"`
}

// Debtor is an enrollment with a pending balance, resolved to names
type Debtor struct {
	EnrollmentID  string  `json:"enrollmentId"`
	StudentName   string  `json:"studentName"`
	CourseName    string  `json:"courseName"`
	PendingAmount float64 `json:"pendingAmount"`
}

// CourseOccupancy describes how full an active course is
type CourseOccupancy struct {
	CourseID        string  `json:"courseId"`
	Name            string  `json:"name"`
	CurrentStudents int     `json:"currentStudents"`
	MaxStudents     int     `json:"maxStudents"`
	AvailableSeats  int     `json:"availableSeats"`
	Ratio           float64 `json:"ratio"`
}
