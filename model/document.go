package model

type Document struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID string `gorm:"not null;index;uniqueIndex:idx_admin_file" json:"-"`

	// Key of the object in external storage. Doubles as the public
	// identifier of the document, unique per admin
	FileID string `gorm:"not null;uniqueIndex:idx_admin_file" json:"file_id"`

	// Original file name before turning it into a storage key
	OriginalName string `json:"original_name"`

	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`

	// Address the uploader left behind so the admin knows who dropped
	// the file. Not verified in any way
	UploaderEmail string `json:"uploader_email"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
