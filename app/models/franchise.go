package models

// Franchise owns stores and is administered by franchisee users.
type Franchise struct {
	ID     uint    `gorm:"primaryKey"                                          json:"id"`
	Name   string  `gorm:"uniqueIndex;size:255;not null"                       json:"name"`
	Admins []Admin `gorm:"-"                                                   json:"admins,omitempty"`
	Stores []Store `gorm:"foreignKey:FranchiseID;constraint:OnDelete:CASCADE" json:"stores"`
}

// Admin is the public view of a franchise administrator.
type Admin struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdminIDs returns the user ids that administer f.
func (f Franchise) AdminIDs() []uint {
	ids := make([]uint, len(f.Admins))
	for i, a := range f.Admins {
		ids[i] = a.ID
	}
	return ids
}

// Store is a franchise location.
type Store struct {
	ID          uint   `gorm:"primaryKey"             json:"id"`
	FranchiseID uint   `gorm:"not null;index"         json:"franchiseId"`
	Name        string `gorm:"size:255;not null"      json:"name"`
}
