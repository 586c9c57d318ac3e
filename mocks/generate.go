package mocks

//go:generate mockgen -destination=./mock_signal_generator.go -package=mocks github.com/rxtech-lab/knightrade/internal/strategy SignalGenerator
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/knightrade/internal/datasource DataSource
