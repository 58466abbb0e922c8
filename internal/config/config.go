package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// Configuration is the single immutable configuration document built at
// startup and passed explicitly to every component constructor.
type Configuration struct {
	Logging   LoggingConfig   `validate:"required"`
	Stripe    StripeConfig    `validate:"required"`
	Xero      XeroConfig      `validate:"required"`
	Migration MigrationConfig `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type StripeConfig struct {
	SecretKey string `validate:"required" mapstructure:"secret_key"`
}

type XeroConfig struct {
	BaseURL     string `validate:"required" mapstructure:"base_url"`
	TenantID    string `validate:"required" mapstructure:"tenant_id"`
	AccessToken string `validate:"required" mapstructure:"access_token"`

	// Destination chart-of-accounts wiring
	SalesAccountCode    string `validate:"required" mapstructure:"sales_account_code"`
	FeesAccountCode     string `validate:"required" mapstructure:"fees_account_code"`
	PaymentsAccountCode string `validate:"required" mapstructure:"payments_account_code"`
	// Contact the processor fee bills are payable to
	StripeContactID string `validate:"required" mapstructure:"stripe_contact_id"`

	// Tax rate codes: two-way switch on the contact's country. This is a
	// known simplification, not a full tax table.
	DomesticCountry string `mapstructure:"domestic_country"`
	DomesticTaxType string `mapstructure:"domestic_tax_type"`
	ForeignTaxType  string `mapstructure:"foreign_tax_type"`
	ExemptTaxType   string `mapstructure:"exempt_tax_type"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type MigrationConfig struct {
	StartDate string `validate:"required" mapstructure:"start_date"`
	EndDate   string `validate:"required" mapstructure:"end_date"`

	MaxRecords       int           `validate:"gt=0" mapstructure:"max_records"`
	DryRun           bool          `mapstructure:"dry_run"`
	CreateFees       bool          `mapstructure:"create_fees"`
	OnlyPaidInvoices bool          `mapstructure:"only_paid_invoices"`
	PacingDelay      time.Duration `mapstructure:"pacing_delay"`
	StateFile        string        `validate:"required" mapstructure:"state_file"`
	// Overlap slack added to the watermark when planning the next window.
	// Assumes pagination/clock skew never exceeds this bound; tunable.
	WindowSlack time.Duration `mapstructure:"window_slack"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stripe-xero-sync")

	v.SetEnvPrefix("STRIPE_XERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrConfiguration)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrConfiguration)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", string(types.LogLevelInfo))

	v.SetDefault("xero.base_url", "https://api.xero.com/api.xro/2.0")
	v.SetDefault("xero.domestic_country", "CH")
	v.SetDefault("xero.domestic_tax_type", "OUTPUT")
	v.SetDefault("xero.foreign_tax_type", "TAX010")
	v.SetDefault("xero.exempt_tax_type", "EXEMPTINPUT")
	v.SetDefault("xero.request_timeout", 30*time.Second)

	v.SetDefault("migration.max_records", 600)
	v.SetDefault("migration.create_fees", true)
	v.SetDefault("migration.only_paid_invoices", true)
	v.SetDefault("migration.pacing_delay", 3*time.Second)
	v.SetDefault("migration.state_file", "migration.state.json")
	v.SetDefault("migration.window_slack", 24*time.Hour)
}

// Validate fails fast before any record is touched: every required
// value must be present and the configured date bounds must parse.
func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fieldErr := range validateErrs {
				details[fieldErr.Namespace()] = fieldErr.Tag()
			}
		}
		return ierr.WithError(err).
			WithHint("Missing or invalid configuration values").
			WithReportableDetails(details).
			Mark(ierr.ErrConfiguration)
	}

	if !c.Logging.Level.Validate() {
		return ierr.NewError("invalid logging level").
			WithHintf("Unknown logging level %q", c.Logging.Level).
			Mark(ierr.ErrConfiguration)
	}

	start, err := c.Migration.StartBound()
	if err != nil {
		return err
	}
	end, err := c.Migration.EndBound()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return ierr.NewError("end date must be after start date").
			WithHintf("Configured range [%s, %s) is empty", c.Migration.StartDate, c.Migration.EndDate).
			Mark(ierr.ErrConfiguration)
	}

	return nil
}

// StartBound returns the configured absolute start date.
func (m MigrationConfig) StartBound() (time.Time, error) {
	t, err := types.ParseDate(m.StartDate)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Invalid migration start_date").
			Mark(ierr.ErrConfiguration)
	}
	return t, nil
}

// EndBound returns the configured absolute end date.
func (m MigrationConfig) EndBound() (time.Time, error) {
	t, err := types.ParseDate(m.EndDate)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Invalid migration end_date").
			Mark(ierr.ErrConfiguration)
	}
	return t, nil
}

// GetDefaultConfig returns a configuration suitable for tests and
// local tooling. Collaborator credentials are placeholders.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: types.LogLevelDebug},
		Stripe:  StripeConfig{SecretKey: "sk_test_placeholder"},
		Xero: XeroConfig{
			BaseURL:             "https://api.xero.com/api.xro/2.0",
			TenantID:            "tenant-placeholder",
			AccessToken:         "token-placeholder",
			SalesAccountCode:    "200",
			FeesAccountCode:     "404",
			PaymentsAccountCode: "090",
			StripeContactID:     "stripe-contact-placeholder",
			DomesticCountry:     "CH",
			DomesticTaxType:     "OUTPUT",
			ForeignTaxType:      "TAX010",
			ExemptTaxType:       "EXEMPTINPUT",
			RequestTimeout:      30 * time.Second,
		},
		Migration: MigrationConfig{
			StartDate:        "2022-01-01",
			EndDate:          "2022-12-31",
			MaxRecords:       600,
			CreateFees:       true,
			OnlyPaidInvoices: true,
			PacingDelay:      3 * time.Second,
			StateFile:        "migration.state.json",
			WindowSlack:      24 * time.Hour,
		},
	}
}
