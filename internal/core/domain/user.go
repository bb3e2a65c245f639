package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AccountStatus is the administrative state of an account. It is independent
// of IsActive, which only tracks whether the user is currently logged in.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountDeleted:
		return true
	}
	return false
}

// User is a marketplace account. Location is nil until the owner reports one.
type User struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	Username       string        `json:"username" bson:"username"`
	Email          string        `json:"email,omitempty" bson:"email"`
	PasswordHash   string        `json:"-" bson:"password_hash"`
	Role           string        `json:"role" bson:"role"`
	FullName       string        `json:"fullName,omitempty" bson:"full_name,omitempty"`
	Phone          string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Bio            string        `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePicture string        `json:"profilePicture,omitempty" bson:"profile_picture,omitempty"`
	Address        string        `json:"address,omitempty" bson:"address,omitempty"`
	Skills         []string      `json:"skills,omitempty" bson:"skills,omitempty"`
	HourlyRate     float64       `json:"hourlyRate,omitempty" bson:"hourly_rate,omitempty"`
	Location       *GeoPoint     `json:"location,omitempty" bson:"location,omitempty"`
	AccountStatus  AccountStatus `json:"accountStatus" bson:"account_status"`
	IsActive       bool          `json:"isActive" bson:"is_active"`
	LastActiveAt   *time.Time    `json:"lastActiveAt,omitempty" bson:"last_active_at,omitempty"`
	Stats          UserStats     `json:"stats" bson:"stats"`
	CreatedAt      time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" bson:"updated_at"`
}

// UserStats are aggregate display fields maintained by the stats worker.
type UserStats struct {
	Rating         float64 `json:"rating" bson:"rating"`
	TotalReviews   int     `json:"totalReviews" bson:"total_reviews"`
	CompletedTasks int     `json:"completedTasks" bson:"completed_tasks"`
	CompletionRate int     `json:"completionRate" bson:"completion_rate"`
}

// DisplayName prefers the full name and falls back to the handle.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Available reports whether the user may show up in worker discovery.
func (u *User) Available() bool {
	return u.AccountStatus == AccountActive && u.IsActive && Discoverable(u.Location)
}

// UserSummary is the public subset embedded in other resources.
type UserSummary struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	FullName       string  `json:"fullName,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
	Rating         float64 `json:"rating"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Email:          u.Email,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		Rating:         u.Stats.Rating,
	}
}
