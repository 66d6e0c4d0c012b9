package config

type Event struct {
	// LowStockThreshold makes the event service warn once a sale leaves this many units or fewer.
	LowStockThreshold int `env:"EVENT_LOW_STOCK_THRESHOLD" envDefault:"0"`
}
