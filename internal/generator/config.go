package generator

// Config drives the synthetic report generator.
type Config struct {
	NumReports  int
	MaxAccounts int
	// MissingFieldChance is the probability that an optional leaf is left out
	// or written blank.
	MissingFieldChance float64
	// UnknownTypeChance is the probability that an account carries a code
	// outside the account-type table.
	UnknownTypeChance float64
	Seed              int64
}

// DefaultConfig returns baseline settings for demo datasets.
func DefaultConfig() Config {
	return Config{
		NumReports:         50,
		MaxAccounts:        6,
		MissingFieldChance: 0.08,
		UnknownTypeChance:  0.05,
		Seed:               42,
	}
}
