package models

// Profile is the single per-user profile row. Saving replaces every column,
// so a missing field in the request clears the stored value.
type Profile struct {
	ID             uint   `json:"-" gorm:"primaryKey"`
	UserID         uint   `json:"-" gorm:"uniqueIndex;not null"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Linkedin       string `json:"linkedin"`
	Github         string `json:"github"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	Cgpa           string `json:"cgpa"`
	Experience     string `json:"experience"`
	Skills         string `json:"skills"`
	Certifications string `json:"certifications"`
}
