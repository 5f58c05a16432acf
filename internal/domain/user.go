package domain

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`                    // Primary key
	Email     string    `gorm:"size:255;uniqueIndex;not null"` // Unique email
	Username  string    `gorm:"size:64;not null"`              // Login name
	FirstName string    `gorm:"size:64"`                       // First name
	LastName  string    `gorm:"size:64"`                       // Last name
	Password  string    `gorm:"not null"`                      // Hashed password
	IsActive  bool      `gorm:"not null;default:true"`         // Soft delete flag
	IsAdmin   bool      `gorm:"not null;default:false"`        // Admin flag
	Accounts  []Account `gorm:"foreignKey:UserID"`             // Accounts owned by the user
}

// FullName joins first and last name the way listings show it
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Identity is the authenticated caller resolved from a bearer token
type Identity struct {
	ID       uint   // User ID
	Username string // Username claim
	IsAdmin  bool   // Admin flag claim
}

// CanAccess reports whether the caller may read data of the given user
func (i Identity) CanAccess(userID uint) bool {
	return i.IsAdmin || i.ID == userID
}
