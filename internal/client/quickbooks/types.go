package quickbooks

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date unmarshals the API's bare yyyy-mm-dd date strings.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

type Ref struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

type EmailAddr struct {
	Address string `json:"Address"`
}

type Phone struct {
	FreeFormNumber string `json:"FreeFormNumber"`
}

type Address struct {
	Line1                  string `json:"Line1"`
	City                   string `json:"City"`
	CountrySubDivisionCode string `json:"CountrySubDivisionCode"`
	PostalCode             string `json:"PostalCode"`
	Country                string `json:"Country"`
}

type MetaData struct {
	CreateTime      *time.Time `json:"CreateTime"`
	LastUpdatedTime *time.Time `json:"LastUpdatedTime"`
}

type Customer struct {
	ID               string          `json:"Id"`
	DisplayName      string          `json:"DisplayName"`
	CompanyName      string          `json:"CompanyName"`
	Active           bool            `json:"Active"`
	Balance          decimal.Decimal `json:"Balance"`
	Notes            string          `json:"Notes"`
	PrimaryEmailAddr *EmailAddr      `json:"PrimaryEmailAddr"`
	PrimaryPhone     *Phone          `json:"PrimaryPhone"`
	BillAddr         *Address        `json:"BillAddr"`
	ShipAddr         *Address        `json:"ShipAddr"`
	MetaData         *MetaData       `json:"MetaData"`
}

type Invoice struct {
	ID          string          `json:"Id"`
	DocNumber   string          `json:"DocNumber"`
	TxnDate     *Date           `json:"TxnDate"`
	DueDate     *Date           `json:"DueDate"`
	TotalAmt    decimal.Decimal `json:"TotalAmt"`
	Balance     decimal.Decimal `json:"Balance"`
	CurrencyRef *Ref            `json:"CurrencyRef"`
	CustomerRef *Ref            `json:"CustomerRef"`
	PrivateNote string          `json:"PrivateNote"`
	Line        []InvoiceLine   `json:"Line"`
	MetaData    *MetaData       `json:"MetaData"`
}

// InvoiceLine covers sales lines; subtotal and discount lines come through
// with a different DetailType and no SalesItemLineDetail.
type InvoiceLine struct {
	DetailType          string               `json:"DetailType"`
	Description         string               `json:"Description"`
	Amount              decimal.Decimal      `json:"Amount"`
	SalesItemLineDetail *SalesItemLineDetail `json:"SalesItemLineDetail"`
}

type SalesItemLineDetail struct {
	ItemRef   *Ref            `json:"ItemRef"`
	Qty       decimal.Decimal `json:"Qty"`
	UnitPrice decimal.Decimal `json:"UnitPrice"`
}

// IsSalesLine reports whether the line carries a sellable item detail.
func (l InvoiceLine) IsSalesLine() bool {
	return l.DetailType == "SalesItemLineDetail" && l.SalesItemLineDetail != nil
}
