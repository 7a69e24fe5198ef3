// Package model defines database models
package model

type Admin struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Email string `gorm:"unique;not null" json:"email"`
	Name  string `gorm:"not null" json:"name"`

	PasswordHash string `gorm:"not null" json:"-"`

	// AES ciphertext of the upload PIN. The plaintext PIN is never
	// stored or logged, only recovered on demand
	UploadPin string `gorm:"not null" json:"-"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`

	Documents []Document `gorm:"foreignKey:AdminID" json:"-"`
}
