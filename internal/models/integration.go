package models

// Integration identifies the remote system a record or credential belongs to.
type Integration string

const (
	IntegrationShopify    Integration = "shopify"
	IntegrationQuickBooks Integration = "quickbooks"
)

func (i Integration) Valid() bool {
	switch i {
	case IntegrationShopify, IntegrationQuickBooks:
		return true
	}
	return false
}

func (i Integration) String() string {
	return string(i)
}
