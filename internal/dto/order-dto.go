package dto

type CreateOrderDTO struct {
	OrderID      string  `json:"orderId" validate:"required,min=3,max=64"`
	CustomerID   string  `json:"customerId" validate:"required,max=64"`
	CustomerName string  `json:"customerName" validate:"required,max=255"`
	TotalAmount  string  `json:"totalAmount" validate:"required,decimal_string"`
	ItemCount    int     `json:"itemCount" validate:"required,gt=0"`
	Status       *string `json:"status,omitempty" validate:"omitempty,order_status"`
}

type UpdateOrderDTO struct {
	CustomerID   *string `json:"customerId,omitempty" validate:"omitempty,max=64"`
	CustomerName *string `json:"customerName,omitempty" validate:"omitempty,max=255"`
	TotalAmount  *string `json:"totalAmount,omitempty" validate:"omitempty,decimal_string"`
	ItemCount    *int    `json:"itemCount,omitempty" validate:"omitempty,gt=0"`
	Status       *string `json:"status,omitempty" validate:"omitempty,order_status"`
}

// TriggerUpdateDTO — ручной перевод заказа в произвольный статус.
// Цепочкой симулятора не ограничен: допустим любой известный статус.
// Поле changedBy попадает в историю как оператор; без него — "Manual".
type TriggerUpdateDTO struct {
	Status    string  `json:"status" validate:"required,order_status"`
	ChangedBy *string `json:"changedBy,omitempty" validate:"omitempty,max=64"`
}
