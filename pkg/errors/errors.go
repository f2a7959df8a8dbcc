package errors

import "fmt"

var (
	// Заказы
	ErrOrderNotFound  = fmt.Errorf("заказ не найден")
	ErrDuplicateOrder = fmt.Errorf("заказ с таким номером уже существует")
	ErrUnknownStatus  = fmt.Errorf("неизвестный статус заказа")

	// Live-подписки
	ErrClientNotFound = fmt.Errorf("клиент live-обновлений не найден")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// HttpError — ошибка с HTTP-кодом и сообщением для пользователя.
// Err и Context попадают только в логи, Details — в тело ответа.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: context,
	}
}
