package config

import (
	"errors"
	"log"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LendingConfig carries the lookup tables the calculation engines read:
// lender spreads over base rate, LTV premium tiers, SDLT bands and the
// lender affordability thresholds. The defaults are the published 2025
// figures; a `lending.yml` file can override them and is hot-reloaded.
type LendingConfig struct {
	LenderSpreads   map[string]float64 `mapstructure:"lenderSpreads"`
	DefaultRateType string             `mapstructure:"defaultRateType"`

	// LTVTiers are evaluated ascending; first tier with LTV <= MaxLTV wins.
	LTVTiers   []LTVTier `mapstructure:"ltvTiers"`
	LTVCeiling float64   `mapstructure:"ltvCeiling"`

	// SDLT for England & NI. A band with UpTo == 0 is unbounded.
	SDLTBands    []SDLTBand `mapstructure:"sdltBands"`
	SDLTFTBBands []SDLTBand `mapstructure:"sdltFtbBands"`
	// FTB relief is void above this price.
	FTBPriceCap         int     `mapstructure:"ftbPriceCap"`
	AdditionalSurcharge float64 `mapstructure:"additionalSurcharge"`

	IncomeMultiple    float64 `mapstructure:"incomeMultiple"`
	StressBuffer      float64 `mapstructure:"stressBuffer"`
	MaxRepaymentRatio float64 `mapstructure:"maxRepaymentRatio"`
	MaxStressRatio    float64 `mapstructure:"maxStressRatio"`

	BaseRateFallback float64 `mapstructure:"baseRateFallback"`
	DefaultTermYears int     `mapstructure:"defaultTermYears"`

	DepositLadder []float64 `mapstructure:"depositLadder"`

	SolicitorFee int `mapstructure:"solicitorFee"`
	SurveyCost   int `mapstructure:"surveyCost"`
	BrokerFee    int `mapstructure:"brokerFee"`
}

type LTVTier struct {
	MaxLTV  float64 `mapstructure:"maxLtv"`
	Premium float64 `mapstructure:"premium"`
}

type SDLTBand struct {
	UpTo int     `mapstructure:"upTo"`
	Rate float64 `mapstructure:"rate"`
}

func DefaultLendingConfig() LendingConfig {
	return LendingConfig{
		LenderSpreads: map[string]float64{
			"best_fixed_2yr":    0.75,
			"average_fixed_2yr": 1.25,
			"best_fixed_5yr":    0.90,
			"average_fixed_5yr": 1.40,
			"standard_variable": 2.25,
			"tracker":           0.50,
		},
		DefaultRateType: "average_fixed_2yr",
		LTVTiers: []LTVTier{
			{MaxLTV: 60, Premium: 0.0},
			{MaxLTV: 75, Premium: 0.10},
			{MaxLTV: 80, Premium: 0.20},
			{MaxLTV: 85, Premium: 0.40},
			{MaxLTV: 90, Premium: 0.65},
		},
		LTVCeiling: 1.00,
		SDLTBands: []SDLTBand{
			{UpTo: 250_000, Rate: 0.0},
			{UpTo: 925_000, Rate: 0.05},
			{UpTo: 1_500_000, Rate: 0.10},
			{UpTo: 0, Rate: 0.12},
		},
		SDLTFTBBands: []SDLTBand{
			{UpTo: 425_000, Rate: 0.0},
			{UpTo: 625_000, Rate: 0.05},
		},
		FTBPriceCap:         625_000,
		AdditionalSurcharge: 0.05,

		IncomeMultiple:    4.5,
		StressBuffer:      3.0,
		MaxRepaymentRatio: 40,
		MaxStressRatio:    45,

		BaseRateFallback: 4.50,
		DefaultTermYears: 25,

		DepositLadder: []float64{5, 10, 15, 20, 25, 30, 40, 50},

		SolicitorFee: 1_500,
		SurveyCost:   500,
		BrokerFee:    500,
	}
}

// LendingConfigHolder exposes the current lending tables; reloads swap
// the whole value atomically so engine calls never see a partial table.
type LendingConfigHolder struct {
	current atomic.Value // holds LendingConfig
}

func NewLendingConfigHolder() (*LendingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("lending")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/homebuyer")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HOMEBUYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLendingConfig()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	cfg := defaults
	if fileFound {
		if err := v.UnmarshalKey("lending", &cfg); err != nil {
			return nil, err
		}
		applyLendingDefaults(&cfg, defaults)
	}
	if err := validateLendingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &LendingConfigHolder{}
	holder.current.Store(cfg)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated := defaults
			if err := v.UnmarshalKey("lending", &updated); err != nil {
				log.Printf("[lending-config] reload failed: %v", err)
				return
			}
			applyLendingDefaults(&updated, defaults)
			if err := validateLendingConfig(updated); err != nil {
				log.Printf("[lending-config] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
		})
	}

	return holder, nil
}

func (h *LendingConfigHolder) Current() LendingConfig {
	return h.current.Load().(LendingConfig)
}

// NewStaticLendingConfigHolder wraps a fixed config; used by tests and
// the terminal menu where file watching is unwanted.
func NewStaticLendingConfigHolder(cfg LendingConfig) *LendingConfigHolder {
	holder := &LendingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func applyLendingDefaults(cfg *LendingConfig, defaults LendingConfig) {
	if len(cfg.LenderSpreads) == 0 {
		cfg.LenderSpreads = defaults.LenderSpreads
	}
	if cfg.DefaultRateType == "" {
		cfg.DefaultRateType = defaults.DefaultRateType
	}
	if len(cfg.LTVTiers) == 0 {
		cfg.LTVTiers = defaults.LTVTiers
		cfg.LTVCeiling = defaults.LTVCeiling
	}
	if len(cfg.SDLTBands) == 0 {
		cfg.SDLTBands = defaults.SDLTBands
	}
	if len(cfg.SDLTFTBBands) == 0 {
		cfg.SDLTFTBBands = defaults.SDLTFTBBands
	}
	if cfg.FTBPriceCap == 0 {
		cfg.FTBPriceCap = defaults.FTBPriceCap
	}
	if cfg.AdditionalSurcharge == 0 {
		cfg.AdditionalSurcharge = defaults.AdditionalSurcharge
	}
	if cfg.IncomeMultiple == 0 {
		cfg.IncomeMultiple = defaults.IncomeMultiple
	}
	if cfg.StressBuffer == 0 {
		cfg.StressBuffer = defaults.StressBuffer
	}
	if cfg.MaxRepaymentRatio == 0 {
		cfg.MaxRepaymentRatio = defaults.MaxRepaymentRatio
	}
	if cfg.MaxStressRatio == 0 {
		cfg.MaxStressRatio = defaults.MaxStressRatio
	}
	if cfg.BaseRateFallback == 0 {
		cfg.BaseRateFallback = defaults.BaseRateFallback
	}
	if cfg.DefaultTermYears == 0 {
		cfg.DefaultTermYears = defaults.DefaultTermYears
	}
	if len(cfg.DepositLadder) == 0 {
		cfg.DepositLadder = defaults.DepositLadder
	}
	if cfg.SolicitorFee == 0 {
		cfg.SolicitorFee = defaults.SolicitorFee
	}
	if cfg.SurveyCost == 0 {
		cfg.SurveyCost = defaults.SurveyCost
	}
	if cfg.BrokerFee == 0 {
		cfg.BrokerFee = defaults.BrokerFee
	}
}

var (
	errNoSpreadForDefault = errors.New("lending: defaultRateType has no spread entry")
	errTiersNotAscending  = errors.New("lending: ltvTiers must be ascending by maxLtv")
	errBandsNotAscending  = errors.New("lending: sdlt bands must be ascending with one unbounded tail at most")
	errNegativeRate       = errors.New("lending: rates and premiums must be non-negative")
)

func validateLendingConfig(cfg LendingConfig) error {
	if _, ok := cfg.LenderSpreads[cfg.DefaultRateType]; !ok {
		return errNoSpreadForDefault
	}
	for _, s := range cfg.LenderSpreads {
		if s < 0 {
			return errNegativeRate
		}
	}
	if !sort.SliceIsSorted(cfg.LTVTiers, func(i, j int) bool {
		return cfg.LTVTiers[i].MaxLTV < cfg.LTVTiers[j].MaxLTV
	}) {
		return errTiersNotAscending
	}
	for _, t := range cfg.LTVTiers {
		if t.Premium < 0 {
			return errNegativeRate
		}
	}
	if cfg.LTVCeiling < 0 || cfg.AdditionalSurcharge < 0 {
		return errNegativeRate
	}
	if err := validateBands(cfg.SDLTBands); err != nil {
		return err
	}
	return validateBands(cfg.SDLTFTBBands)
}

func validateBands(bands []SDLTBand) error {
	prev := 0
	for i, b := range bands {
		if b.Rate < 0 {
			return errNegativeRate
		}
		if b.UpTo == 0 {
			// Unbounded band is only valid as the final entry.
			if i != len(bands)-1 {
				return errBandsNotAscending
			}
			continue
		}
		if b.UpTo <= prev {
			return errBandsNotAscending
		}
		prev = b.UpTo
	}
	return nil
}
