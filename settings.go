package cashbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCorporateTaxRate is the corporate tax rate in percent used when none is configured.
var DefaultCorporateTaxRate = decimal.NewFromInt(25)

// AEATConfig holds the connection details of the tax agency module.
type AEATConfig struct {
	CertPath string `json:"certPath"`
	CertPass string `json:"certPass"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"apiKey"`
}

// FiscalParameters holds the parameters of the tax estimate.
type FiscalParameters struct {
	CorporateTaxRate decimal.Decimal `json:"corporateTaxRate"` // in percent
}

// Settings is the user configuration persisted with the book.
type Settings struct {
	AEATModuleActive bool             `json:"aeatModuleActive"`
	AEATConfig       AEATConfig       `json:"aeatConfig"`
	FiscalParameters FiscalParameters `json:"fiscalParameters"`
}

func defaultSettings() Settings {
	return Settings{
		FiscalParameters: FiscalParameters{CorporateTaxRate: DefaultCorporateTaxRate},
	}
}

// Settings returns a copy of the current settings.
func (l *Ledger) Settings() Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Settings
}

// SetCorporateTaxRate sets the rate, in percent, used by the tax estimate.
func (l *Ledger) SetCorporateTaxRate(rate string) error {
	v, err := parseAmount("corporateTaxRate", rate, true)
	if err != nil {
		return err
	}
	if v.GreaterThan(decimal.NewFromInt(100)) {
		return invalid("corporateTaxRate", rate, "must be at most 100")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Settings.FiscalParameters.CorporateTaxRate = v
	l.log.Info().Str("rate", v.String()).Msg("corporate tax rate updated")
	l.commit()
	return nil
}

// SetAEATConfig stores the tax agency module configuration. The endpoint is
// required while the module is active.
func (l *Ledger) SetAEATConfig(cfg AEATConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Settings.AEATModuleActive && cfg.Endpoint == "" {
		return invalid("endpoint", "", "is required while the AEAT module is active")
	}
	l.state.Settings.AEATConfig = cfg
	l.log.Info().Str("endpoint", cfg.Endpoint).Msg("AEAT configuration updated")
	l.commit()
	return nil
}

// SetAEATModuleActive turns the tax agency module on or off. It cannot be
// turned on before an endpoint is configured.
func (l *Ledger) SetAEATModuleActive(active bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if active && l.state.Settings.AEATConfig.Endpoint == "" {
		return fmt.Errorf("cannot activate the AEAT module: %w", invalid("endpoint", "", "is required"))
	}
	l.state.Settings.AEATModuleActive = active
	l.log.Info().Bool("active", active).Msg("AEAT module toggled")
	l.commit()
	return nil
}
