package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/angas/pvplan-go/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfigSimulation struct {
	// Reference calendar year for the load and weather series
	Year int
	// Timezone the facility bills in, default: UTC
	Timezone *string `mapstructure:"timezone"`
	// Cron expression for re-running the analysis in watch mode
	RunAt string `mapstructure:"run_at"`
}

func (s AppConfigSimulation) GetTimezone() string {
	if s.Timezone == nil {
		return "UTC"
	}
	return *s.Timezone
}

func (s AppConfigSimulation) Location() (*time.Location, error) {
	return time.LoadLocation(s.GetTimezone())
}

func (s AppConfigSimulation) GetRunAt() string {
	if s.RunAt == "" {
		return "0 3 * * *"
	}
	return s.RunAt
}

type AppConfigLoad struct {
	BaseKVA float64 `mapstructure:"base_kva"` // Overnight/weekend floor load in kVA
	PeakKVA float64 `mapstructure:"peak_kva"` // Weekday business-hours peak in kVA
	Jitter  float64 `mapstructure:"jitter"`   // Random hour-to-hour variation, fraction of the estimate (0 disables)
	Seed    *int64  `mapstructure:"seed"`     // Fixed RNG seed for reproducible runs
}

func (l AppConfigLoad) Validate() error {
	if l.BaseKVA < 0 || l.PeakKVA < 0 {
		return fmt.Errorf("load: base_kva and peak_kva must be non-negative")
	}
	if l.Jitter < 0 || l.Jitter > 1 {
		return fmt.Errorf("load: jitter must be in [0,1]")
	}
	return nil
}

type AppConfigPVSystem struct {
	PanelCount       int     `mapstructure:"panel_count"`       // Number of panels
	PanelArea        float64 `mapstructure:"panel_area"`        // Area per panel in m²
	PanelEfficiency  float64 `mapstructure:"panel_efficiency"`  // Module efficiency, 0..1
	TempCoefficient  float64 `mapstructure:"temp_coefficient"`  // Power derating per °C above 25, typically negative
	SystemEfficiency float64 `mapstructure:"system_efficiency"` // Inverter/wiring/soiling losses, 0..1
	TiltDegrees      float64 `mapstructure:"tilt_degrees"`      // Panel tilt from horizontal
	Albedo           float64 `mapstructure:"albedo"`            // Ground reflectance, 0..1
}

func (p AppConfigPVSystem) Validate() error {
	if p.PanelCount < 0 {
		return fmt.Errorf("pv_system: panel_count must be non-negative")
	}
	if p.PanelArea < 0 {
		return fmt.Errorf("pv_system: panel_area must be non-negative")
	}
	if p.PanelEfficiency < 0 || p.PanelEfficiency > 1 {
		return fmt.Errorf("pv_system: panel_efficiency must be in [0,1]")
	}
	if p.SystemEfficiency < 0 || p.SystemEfficiency > 1 {
		return fmt.Errorf("pv_system: system_efficiency must be in [0,1]")
	}
	if p.Albedo < 0 || p.Albedo > 1 {
		return fmt.Errorf("pv_system: albedo must be in [0,1]")
	}
	return nil
}

type AppConfigTariff struct {
	ImportRate float64 `mapstructure:"import_rate"` // Price per imported kWh
	ExportRate float64 `mapstructure:"export_rate"` // Credit per exported kWh
	// Multiplier applied to both energy terms, e.g. 1.25 for 25% VAT
	TaxMultiplier float64 `mapstructure:"tax_multiplier"`
	// Fixed monthly charge. Applied to both the import cost and the
	// export revenue, mirroring the source billing model. That symmetry
	// is a documented simplification, not a verified tariff design.
	ServiceCharge float64 `mapstructure:"service_charge"`
}

func (t AppConfigTariff) Validate() error {
	if t.ImportRate < 0 || t.ExportRate < 0 {
		return fmt.Errorf("tariff: rates must be non-negative")
	}
	if t.TaxMultiplier < 0 {
		return fmt.Errorf("tariff: tax_multiplier must be non-negative")
	}
	return nil
}

type AppConfigFinancial struct {
	CapitalCost  float64 `mapstructure:"capital_cost"`  // Up-front system cost
	AnnualOM     float64 `mapstructure:"annual_om"`     // Operation & maintenance per year
	DiscountRate float64 `mapstructure:"discount_rate"` // Per-year discount rate, e.g. 0.05
	HorizonYears int     `mapstructure:"horizon_years"` // Analysis horizon N
}

func (f AppConfigFinancial) Validate() error {
	if f.HorizonYears < 1 {
		return fmt.Errorf("financial: horizon_years must be at least 1")
	}
	if f.DiscountRate <= -1 {
		return fmt.Errorf("financial: discount_rate must be greater than -1")
	}
	return nil
}

type AppConfigBilling struct {
	// Metered consumption in kWh for January..December of the reference year
	MonthlyKWh []float64 `mapstructure:"monthly_kwh"`
}

func (b AppConfigBilling) Validate() error {
	if len(b.MonthlyKWh) != 12 {
		return fmt.Errorf("billing: monthly_kwh must have exactly 12 entries, got %d", len(b.MonthlyKWh))
	}
	for i, kwh := range b.MonthlyKWh {
		if kwh < 0 {
			return fmt.Errorf("billing: monthly_kwh[%d] must be non-negative", i)
		}
	}
	return nil
}

// ByMonth returns the billing table keyed by calendar month.
func (b AppConfigBilling) ByMonth() map[time.Month]float64 {
	m := make(map[time.Month]float64, 12)
	for i, kwh := range b.MonthlyKWh {
		m[time.Month(i+1)] = kwh
	}
	return m
}

type AppConfigWeather struct {
	// CSV file with one row per hour of the reference year
	Path string
}

type AppConfigDatabase struct {
	Path string
	// How many analysis runs to keep before old ones get purged
	RunRetention *int `mapstructure:"run_retention"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetRunRetention() int {
	if d.RunRetention == nil {
		return 30
	}
	return *d.RunRetention
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigReport struct {
	// Directory for CSV exports, empty disables the export
	Dir string
}

type AppConfigLogging struct {
	// Min log level for database: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Simulation AppConfigSimulation
	Load       AppConfigLoad
	PVSystem   AppConfigPVSystem `mapstructure:"pv_system"`
	Tariff     AppConfigTariff
	Financial  AppConfigFinancial
	Billing    AppConfigBilling
	Weather    AppConfigWeather
	Database   AppConfigDatabase
	Report     AppConfigReport
	Logging    AppConfigLogging
}

func (c *AppConfig) Validate() error {
	if c.Simulation.Year < 1900 || c.Simulation.Year > 2200 {
		return fmt.Errorf("simulation: year %d out of range", c.Simulation.Year)
	}
	if _, err := c.Simulation.Location(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Load.Validate(); err != nil {
		return err
	}
	if err := c.PVSystem.Validate(); err != nil {
		return err
	}
	if err := c.Tariff.Validate(); err != nil {
		return err
	}
	if err := c.Financial.Validate(); err != nil {
		return err
	}
	return c.Billing.Validate()
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &c, nil
}

// Watch re-reads and re-validates the config whenever the file changes
// and hands the fresh config to onChange. Invalid edits are logged and
// skipped so a typo can't take down a running watch-mode process.
func Watch(logger *slog.Logger, onChange func(*AppConfig)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", slog.String("file", e.Name))

		var c AppConfig
		if err := viper.Unmarshal(&c); err != nil {
			logger.Error("ignoring config change", slog.Any("error", err))
			return
		}
		if err := c.Validate(); err != nil {
			logger.Error("ignoring invalid config change", slog.Any("error", err))
			return
		}
		onChange(&c)
	})
	viper.WatchConfig()
}
