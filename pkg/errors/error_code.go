package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Shape errors (100-149)
	ErrCodeShapeMismatch      ErrorCode = 100
	ErrCodeInvalidAxis        ErrorCode = 101
	ErrCodeUnorderedTimeAxis  ErrorCode = 102
	ErrCodeDuplicateLabel     ErrorCode = 103
	ErrCodeRaggedTable        ErrorCode = 104
	ErrCodeUndefinedPosition  ErrorCode = 105
	ErrCodeInvalidOrientation ErrorCode = 106

	// Configuration errors (150-199)
	ErrCodeInvalidConfiguration ErrorCode = 150
	ErrCodeInvalidPeriod        ErrorCode = 151
	ErrCodeInvalidThreshold     ErrorCode = 152
	ErrCodeInvalidAmount        ErrorCode = 153
	ErrCodeInvalidVersion       ErrorCode = 154
	ErrCodeUnsupportedStrategy  ErrorCode = 155

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeInvalidField          ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeInsufficientHistory ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeStrategyRuntimeError ErrorCode = 400

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeInvalidProvider       ErrorCode = 702
)

// shapeCodes are the codes reported by IsShapeError.
var shapeCodes = map[ErrorCode]bool{
	ErrCodeShapeMismatch:      true,
	ErrCodeInvalidAxis:        true,
	ErrCodeUnorderedTimeAxis:  true,
	ErrCodeDuplicateLabel:     true,
	ErrCodeRaggedTable:        true,
	ErrCodeUndefinedPosition:  true,
	ErrCodeInvalidOrientation: true,
}

// configurationCodes are the codes reported by IsConfigurationError.
var configurationCodes = map[ErrorCode]bool{
	ErrCodeInvalidConfiguration: true,
	ErrCodeInvalidPeriod:        true,
	ErrCodeInvalidThreshold:     true,
	ErrCodeInvalidAmount:        true,
	ErrCodeInvalidVersion:       true,
	ErrCodeUnsupportedStrategy:  true,
}
