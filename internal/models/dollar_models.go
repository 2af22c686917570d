package models

// DollarBlue is the informal-market buy/sell quote as shown on the source page.
type DollarBlue struct {
	Compra string `json:"compra"`
	Venta  string `json:"venta"`
}
