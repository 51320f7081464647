package models

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Candidate struct {
	BaseModel
	ReferenceNumber     string          `gorm:"size:16;uniqueIndex;not null" json:"referenceNumber"`
	FirstName           string          `gorm:"not null" json:"firstName"`
	LastName            string          `gorm:"not null" json:"lastName"`
	PhoneNumber         string          `gorm:"not null" json:"phoneNumber"`
	Email               string          `gorm:"not null;index" json:"email"`
	Gender              Gender          `gorm:"type:varchar(10);not null" json:"gender"`
	DateOfBirth         datatypes.Date  `gorm:"not null" json:"dateOfBirth"`
	Education           string          `gorm:"type:text;not null" json:"education"`
	Experience          string          `gorm:"type:text;not null" json:"experience"`
	TechnicalTestRating *int            `json:"technicalTestRating,omitempty"`
	HRInterviewRating   *int            `json:"hrInterviewRating,omitempty"`
	HRReview            string          `gorm:"type:text" json:"hrReview,omitempty"`
	Image               string          `gorm:"not null" json:"image"`
	Resume              string          `gorm:"not null" json:"resume"`
	CreatedByID         string          `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy           *User           `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Status              CandidateStatus `gorm:"type:varchar(32);not null;index" json:"status"`
}

// BeforeCreate выдает номер до записи в БД
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if err := c.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if c.ReferenceNumber == "" {
		c.ReferenceNumber = GenerateReferenceNumber(time.Now())
	}
	if c.Status == "" {
		c.Status = CandidateStatusNew
	}
	return nil
}

// GenerateReferenceNumber: "REF" + последние 6 цифр unix-миллисекунд + случайные 3 цифры
func GenerateReferenceNumber(now time.Time) string {
	return fmt.Sprintf("REF%06d%03d", now.UnixMilli()%1_000_000, rand.IntN(1000))
}

func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Age - полных лет на дату now
func (c *Candidate) Age(now time.Time) int {
	dob := time.Time(c.DateOfBirth)
	if dob.IsZero() {
		return 0
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
