package handler

import (
	"github.com/go-playground/validator/v10"
)

// formatValidationError превращает ошибку валидации в короткое сообщение клиенту
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
