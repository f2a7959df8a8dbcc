package seeders

// demoOrders — фиксированный демо-набор. Все заказы стартуют в pending,
// чтобы симулятору было что продвигать по всей цепочке.
var demoOrders = []struct {
	OrderID      string
	CustomerID   string
	CustomerName string
	TotalAmount  string
	ItemCount    int
}{
	{OrderID: "ORD-1001", CustomerID: "CUST-001", CustomerName: "Алишер Каримов", TotalAmount: "1250.50", ItemCount: 3},
	{OrderID: "ORD-1002", CustomerID: "CUST-002", CustomerName: "Мадина Рахимова", TotalAmount: "780.00", ItemCount: 1},
	{OrderID: "ORD-1003", CustomerID: "CUST-003", CustomerName: "Фаррух Назаров", TotalAmount: "2499.99", ItemCount: 5},
	{OrderID: "ORD-1004", CustomerID: "CUST-004", CustomerName: "Нилуфар Саидова", TotalAmount: "349.90", ItemCount: 2},
	{OrderID: "ORD-1005", CustomerID: "CUST-005", CustomerName: "Джамшед Холов", TotalAmount: "5120.75", ItemCount: 8},
}
