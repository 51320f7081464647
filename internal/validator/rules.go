package validator

import (
	"log"
	"strconv"
	"strings"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Форматы дат, которые принимает API
var DateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate разбирает дату в одном из форматов DateLayouts
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Приложение не должно стартовать с неполным набором правил
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-designation", validateDesignation)
	mustRegister("is-gender", validateGender)
	mustRegister("is-assignment-status", validateAssignmentStatus)
	mustRegister("strong-password", validateStrongPassword)
	mustRegister("iso-date", validateISODate)
	mustRegister("rating", validateRating)
}

// Пустые значения не проверяем: для этого есть 'required'

func validateDesignation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.Designation(value).IsValid()
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.Gender(value).IsValid()
}

func validateAssignmentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.AssignmentStatus(value).IsValid()
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return auth.ValidatePassword(fl.Field().String()) == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := ParseDate(value)
	return ok
}

// ParseRating разбирает оценку 1-10 из формы; пустая строка - оценки нет
func ParseRating(value string) (*int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 10 {
		return nil, false
	}
	return &n, true
}

func validateRating(fl validator.FieldLevel) bool {
	_, ok := ParseRating(fl.Field().String())
	return ok
}
