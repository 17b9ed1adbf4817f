// README: Pricing rate definition for each vehicle class.
package pricing

import "swiftcab/internal/modules/booking"

type Rate struct {
	VehicleClass booking.VehicleClass
	BaseFare     int64
	Currency     string
}

const (
	// DefaultBaseFare prices any vehicle class missing from the rate table.
	DefaultBaseFare int64 = 3500

	// JitterMin and JitterMax bound the random adjustment added to every estimate.
	JitterMin = -200
	JitterMax = 300
)

var defaultRates = []Rate{
	{VehicleClass: booking.VehicleSedan, BaseFare: 3500},
	{VehicleClass: booking.VehicleSuv, BaseFare: 4000},
	{VehicleClass: booking.VehicleHatchback, BaseFare: 3000},
}
