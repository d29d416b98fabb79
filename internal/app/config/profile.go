package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tomatocr/cotizador/internal/domain/quote"
)

// Profile is the business profile: who issues the quotes and the values
// new quotes start with.
type Profile struct {
	Company struct {
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
		Contact string `yaml:"contact"`
		Logo    string `yaml:"logo"`
	} `yaml:"company"`
	Quote struct {
		NumberPrefix string  `yaml:"number_prefix"`
		Currency     string  `yaml:"currency"`
		ServiceType  string  `yaml:"service_type"`
		Frequency    string  `yaml:"frequency"`
		ValidDays    int     `yaml:"valid_days"`
		TaxRate      *string `yaml:"tax_rate"`
		Terms        string  `yaml:"terms"`
	} `yaml:"quote"`
}

// LoadProfile reads the YAML profile at path. A missing file yields the
// built-in TOMATO CR profile; fields left out of the file keep theirs.
func LoadProfile(path string) (quote.Defaults, quote.Branding, error) {
	defaults, brand := quote.DefaultSettings(), quote.DefaultBranding()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults, brand, nil
	}
	if err != nil {
		return defaults, brand, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return defaults, brand, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p.apply(defaults, brand)
}

func (p Profile) apply(d quote.Defaults, b quote.Branding) (quote.Defaults, quote.Branding, error) {
	setString(&b.CompanyName, p.Company.Name)
	setString(&b.Tagline, p.Company.Tagline)
	setString(&b.Contact, p.Company.Contact)
	if p.Company.Logo != "" {
		if u, err := url.Parse(p.Company.Logo); err != nil || !u.IsAbs() {
			return d, b, fmt.Errorf("profile logo %q must be an absolute URL", p.Company.Logo)
		}
		b.LogoURL = p.Company.Logo
	}

	setString(&d.NumberPrefix, p.Quote.NumberPrefix)
	setString(&d.ServiceType, p.Quote.ServiceType)
	setString(&d.Frequency, p.Quote.Frequency)
	setString(&d.Terms, p.Quote.Terms)
	if p.Quote.Currency != "" {
		c, err := quote.ParseCurrency(p.Quote.Currency)
		if err != nil {
			return d, b, fmt.Errorf("profile currency: %w", err)
		}
		d.Currency = c
	}
	if p.Quote.ValidDays != 0 {
		if p.Quote.ValidDays < 1 {
			return d, b, fmt.Errorf("profile valid_days must be at least 1")
		}
		d.ValidDays = p.Quote.ValidDays
	}
	if p.Quote.TaxRate != nil {
		rate, err := decimal.NewFromString(*p.Quote.TaxRate)
		if err != nil || rate.IsNegative() {
			return d, b, fmt.Errorf("profile tax_rate %q is not a non-negative number", *p.Quote.TaxRate)
		}
		d.TaxRate = rate
	}
	return d, b, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
