package customvalidator

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("order_status", isOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("decimal_string", isDecimalString); err != nil {
		return err
	}
	return nil
}

// isOrderStatus — значение входит в перечень статусов заказа.
func isOrderStatus(fl validator.FieldLevel) bool {
	return entities.OrderStatus(fl.Field().String()).Valid()
}

// isDecimalString — значение разбирается как неотрицательная десятичная сумма.
func isDecimalString(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}
