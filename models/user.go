package models

// User holds a login name and its bcrypt digest. The raw secret is never
// stored and the digest is never serialized.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
}
