package domain

import (
	"time"

	"martpos/internal/core/apperror"
	"martpos/internal/core/types"
)

// Sale is a completed POS transaction header. Immutable once created;
// corrections are out of scope for this engine.
type Sale struct {
	ID            int64       `db:"id" json:"id"`
	InvoiceNumber string      `db:"invoice_number" json:"invoiceNumber"`
	CustomerID    *int64      `db:"customer_id" json:"customerId,omitempty"`
	UserID        int64       `db:"user_id" json:"userId"`
	Subtotal      types.Money `db:"subtotal" json:"subtotal"`
	Discount      types.Money `db:"discount" json:"discount"`
	Tax           types.Money `db:"tax" json:"tax"`
	Total         types.Money `db:"total" json:"total"`
	PaymentMethod string      `db:"payment_method" json:"paymentMethod"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
}

// SaleItem is one line of a sale. ProductID is nil for non-inventory charges
// such as a service fee. Owned exclusively by its Sale; created once, never
// mutated.
type SaleItem struct {
	ID        int64       `db:"id" json:"id"`
	SaleID    int64       `db:"sale_id" json:"saleId"`
	ProductID *int64      `db:"product_id" json:"productId,omitempty"`
	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Discount  types.Money `db:"discount" json:"discount"`
	TaxRate   types.Money `db:"tax_rate" json:"taxRate"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// EnrichedSaleItem is a SaleItem joined with product display fields at read
// time. A later product rename is reflected in older sales' listing views,
// an intentional trade-off.
type EnrichedSaleItem struct {
	SaleItem
	ProductName string `db:"product_name" json:"productName,omitempty"`
	ProductSKU  string `db:"product_sku" json:"productSku,omitempty"`
}

// EnrichedSale is a Sale joined with customer and operator display fields.
type EnrichedSale struct {
	Sale
	CustomerName    string             `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone   string             `db:"customer_phone" json:"customerPhone,omitempty"`
	CustomerAddress string             `db:"customer_address" json:"customerAddress,omitempty"`
	OperatorName    string             `db:"operator_name" json:"operatorName"`
	Items           []EnrichedSaleItem `db:"-" json:"items"`
}

// SaleDraft is the fully-formed request a caller submits to the Sale Writer.
type SaleDraft struct {
	CustomerID    *int64      `json:"customerId,omitempty"`
	UserID        int64       `json:"userId"`
	Discount      types.Money `json:"discount"`
	Tax           types.Money `json:"tax"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []DraftItem `json:"items"`
}

// DraftItem is one cart line of a SaleDraft.
type DraftItem struct {
	ProductID *int64      `json:"productId,omitempty"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Discount  types.Money `json:"discount"`
	TaxRate   types.Money `json:"taxRate"`
}

// LineTotal computes the item's charge:
// qty*unitPrice − discount, plus tax at TaxRate percent on that base.
func (i DraftItem) LineTotal() types.Money {
	base := i.UnitPrice.Mul(types.NewMoney(float64(i.Quantity))).Sub(i.Discount)
	tax := base.Mul(i.TaxRate).Div(types.NewMoney(100))
	return base.Add(tax)
}

// Validate checks the draft before any write happens.
func (d *SaleDraft) Validate() error {
	if d.UserID == 0 {
		return apperror.NewValidation("operator is required").WithDetail("field", "userId")
	}
	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	if d.Discount.IsNegative() || d.Tax.IsNegative() {
		return apperror.NewValidation("discount and tax must not be negative")
	}
	for i, item := range d.Items {
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.ProductID != nil && *item.ProductID == 0 {
			return apperror.NewValidation("product reference must not be zero").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// Totals computes the monetary breakdown for the draft:
// subtotal = sum of line totals, total = subtotal − discount + tax.
func (d *SaleDraft) Totals() (subtotal, total types.Money) {
	subtotal = types.Zero()
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	total = subtotal.Sub(d.Discount).Add(d.Tax)
	return subtotal, total
}
