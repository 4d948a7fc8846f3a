package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file created by "fintrack init".
const FileName = "fintrack.yaml"

// Environment variables that override the file.
const (
	EnvOwner    = "FINTRACK_OWNER"
	EnvLogLevel = "FINTRACK_LOG_LEVEL"
)

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Owner    string         `yaml:"owner"`
	Accounts AccountsConfig `yaml:"accounts"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AccountsConfig holds the parameters of the three default accounts.
type AccountsConfig struct {
	Checking CheckingConfig `yaml:"checking"`
	Savings  SavingsConfig  `yaml:"savings"`
	Credit   CreditConfig   `yaml:"credit"`
}

type CheckingConfig struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	OverdraftLimit float64 `yaml:"overdraft_limit"`
	MonthlyFee     float64 `yaml:"monthly_fee"`
	MinimumBalance float64 `yaml:"minimum_balance"`
}

type SavingsConfig struct {
	ID                     string  `yaml:"id"`
	Name                   string  `yaml:"name"`
	InterestRate           float64 `yaml:"interest_rate"` // annual, 0.04 = 4%
	MinimumBalance         float64 `yaml:"minimum_balance"`
	MonthlyWithdrawalLimit int     `yaml:"monthly_withdrawal_limit"`
	LowBalanceFee          float64 `yaml:"low_balance_fee"`
}

type CreditConfig struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	CreditLimit float64 `yaml:"credit_limit"`
	APR         float64 `yaml:"apr"` // percent, 19.99 = 19.99%
}

// AlertsConfig controls which alert rules run during ingest.
type AlertsConfig struct {
	LargeTransaction   float64         `yaml:"large_transaction"`
	CategoryLimits     []CategoryLimit `yaml:"category_limits,omitempty"`
	SuspiciousKeywords []string        `yaml:"suspicious_keywords,omitempty"`
}

// CategoryLimit flags single transactions in Category above Limit.
type CategoryLimit struct {
	Category string  `yaml:"category"`
	Limit    float64 `yaml:"limit"`
}

// ImportConfig sets defaults for "fintrack ingest".
type ImportConfig struct {
	Format      string `yaml:"format"`
	SkipInvalid bool   `yaml:"skip_invalid"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a fintrack.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// applies FINTRACK_* overrides to cfg. Variables already set in the
// environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOwner)); v != "" {
		cfg.Owner = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate reports every problem with cfg at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Owner) == "" {
		problems = append(problems, "owner cannot be empty")
	}

	negative := func(name string, v float64) {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s cannot be negative (got %v)", name, v))
		}
	}
	negative("accounts.checking.overdraft_limit", c.Accounts.Checking.OverdraftLimit)
	negative("accounts.checking.monthly_fee", c.Accounts.Checking.MonthlyFee)
	negative("accounts.checking.minimum_balance", c.Accounts.Checking.MinimumBalance)
	negative("accounts.savings.interest_rate", c.Accounts.Savings.InterestRate)
	negative("accounts.savings.minimum_balance", c.Accounts.Savings.MinimumBalance)
	negative("accounts.savings.monthly_withdrawal_limit", float64(c.Accounts.Savings.MonthlyWithdrawalLimit))
	negative("accounts.savings.low_balance_fee", c.Accounts.Savings.LowBalanceFee)
	negative("accounts.credit.credit_limit", c.Accounts.Credit.CreditLimit)
	negative("accounts.credit.apr", c.Accounts.Credit.APR)
	negative("alerts.large_transaction", c.Alerts.LargeTransaction)

	for i, cl := range c.Alerts.CategoryLimits {
		if strings.TrimSpace(cl.Category) == "" {
			problems = append(problems, fmt.Sprintf("alerts.category_limits[%d].category cannot be empty", i))
		}
		negative(fmt.Sprintf("alerts.category_limits[%d].limit", i), cl.Limit)
	}

	for _, a := range []struct{ kind, id, name string }{
		{"checking", c.Accounts.Checking.ID, c.Accounts.Checking.Name},
		{"savings", c.Accounts.Savings.ID, c.Accounts.Savings.Name},
		{"credit", c.Accounts.Credit.ID, c.Accounts.Credit.Name},
	} {
		if strings.TrimSpace(a.id) == "" {
			problems = append(problems, fmt.Sprintf("accounts.%s.id cannot be empty", a.kind))
		}
		if strings.TrimSpace(a.name) == "" {
			problems = append(problems, fmt.Sprintf("accounts.%s.name cannot be empty", a.kind))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(owner string) *Config {
	return &Config{
		Owner: owner,
		Accounts: AccountsConfig{
			Checking: CheckingConfig{
				ID:             "ACC_CHECK",
				Name:           "Checking",
				OverdraftLimit: 500,
				MonthlyFee:     10,
				MinimumBalance: 500,
			},
			Savings: SavingsConfig{
				ID:                     "ACC_SAVE",
				Name:                   "Savings",
				InterestRate:           0.04,
				MinimumBalance:         100,
				MonthlyWithdrawalLimit: 6,
				LowBalanceFee:          15,
			},
			Credit: CreditConfig{
				ID:          "ACC_CREDIT",
				Name:        "Credit",
				CreditLimit: 3000,
				APR:         19.99,
			},
		},
		Alerts: AlertsConfig{
			LargeTransaction:   500,
			CategoryLimits:     []CategoryLimit{{Category: "Dining", Limit: 120}},
			SuspiciousKeywords: []string{"unknown", "cash app", "money transfer"},
		},
		Import: ImportConfig{
			Format: "statement",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
