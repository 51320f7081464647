package models

import "time"

// User - сотрудник портала (HR, Manager, Board Member)
type User struct {
	BaseModel
	Name         string      `gorm:"not null" json:"name"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Designation  Designation `gorm:"type:varchar(20);not null;index" json:"designation"`
	IsActive     bool        `gorm:"not null" json:"isActive"`
	LastLogin    *time.Time  `json:"lastLogin,omitempty"`
}

// Admin - учетная запись админ-портала, живет отдельно от User
type Admin struct {
	BaseModel
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// RoleAssignment - приглашение на роль; без активного приглашения регистрация закрыта
type RoleAssignment struct {
	BaseModel
	Email        string               `gorm:"not null;uniqueIndex:idx_role_assignments_email_role" json:"email"`
	Role         Designation          `gorm:"type:varchar(20);not null;uniqueIndex:idx_role_assignments_email_role;index" json:"role"`
	Status       RoleAssignmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	InvitedByID  string               `gorm:"type:uuid;not null;index" json:"invitedById"`
	InvitedBy    *Admin               `gorm:"foreignKey:InvitedByID" json:"invitedBy,omitempty"`
	InvitedAt    time.Time            `gorm:"not null" json:"invitedAt"`
	RegisteredAt *time.Time           `json:"registeredAt,omitempty"`
	LastLogin    *time.Time           `json:"lastLogin,omitempty"`
	IsActive     bool                 `gorm:"not null" json:"isActive"`
}
