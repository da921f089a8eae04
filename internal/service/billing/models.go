package billing

import "github.com/m04kA/DDC-BookingService/pkg/money"

// ExtraCharge дополнительная услуга, включаемая в счет
// (стрижка когтей, купание и т.п.)
type ExtraCharge struct {
	Description string
	Quantity    int64
	UnitPrice   money.Cents
}

// Redemption запрос на оплату части счета кредитами пакета
type Redemption struct {
	PackageID int64
	Credits   int64
}
