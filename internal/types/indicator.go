package types

type IndicatorType string

const (
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeStdDev         IndicatorType = "std_dev"
	IndicatorTypeMomentum       IndicatorType = "momentum"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
)
