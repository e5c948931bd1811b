// Package setup implements the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// generatedConfig mirrors the yaml layout consumed by the config package.
type generatedConfig struct {
	ListenAddr        string        `yaml:"listen_addr"`
	RPCURL            string        `yaml:"rpc_url"`
	ChainID           int64         `yaml:"chain_id"`
	TreasuryAddress   string        `yaml:"treasury_address"`
	PremiumMultiplier string        `yaml:"premium_multiplier"`
	UnitsPerOunce     string        `yaml:"units_per_ounce"`
	RefreshInterval   time.Duration `yaml:"refresh_interval"`
	DefaultCurrency   string        `yaml:"default_currency"`
	TLSDomains        []string      `yaml:"tls_domains,omitempty"`
}

// RunTUI launches the terminal configuration wizard and writes
// config.gen.yaml on confirmation.
func RunTUI() error {
	var (
		network     string
		rpcURL      string
		treasury    string
		premiumStr  string
		unitsStr    string
		intervalStr string
		currency    string
		listenAddr  string
		tlsDomain   string
		confirm     bool
	)

	// defaults
	treasury = "0xd85ca20db6e444e3b4c4b3c18a36fc45f7a66991"
	premiumStr = "1.04"
	unitsStr = "100"
	intervalStr = "90s"
	listenAddr = ":8088"
	currency = string(domain.CurrencyUSD)

	// step 1: welcome
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("SILVERMINT CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up your mint desk.\n"))

	// network
	fmt.Println(stepStyle.Render("STEP 1: NETWORK"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Ethereum network").
				Options(
					huh.NewOption("Mainnet", "1"),
					huh.NewOption("Sepolia testnet", "11155111"),
					huh.NewOption("Local node (chain id 1337)", "1337"),
				).
				Value(&network),
			huh.NewInput().
				Title("JSON-RPC endpoint").
				Description("e.g. https://eth.llamarpc.com or http://localhost:8545").
				Value(&rpcURL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("endpoint cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// treasury
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SILVERMINT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: TREASURY"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Treasury address").
				Description("Address receiving mint payments").
				Value(&treasury).
				Validate(func(s string) error {
					if !common.IsHexAddress(s) {
						return fmt.Errorf("not a valid hex address")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// pricing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SILVERMINT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: PRICING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Issue premium multiplier").
				Description("Applied on top of spot, e.g. 1.04 for 4%").
				Value(&premiumStr).
				Validate(validatePremium),
			huh.NewInput().
				Title("Tokens per ounce").
				Description("How many tokens one troy ounce backs (e.g. 100)").
				Value(&unitsStr).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Refresh interval").
				Description("Duration string (e.g. 30s, 90s, 5m)").
				Value(&intervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Default display currency").
				Options(
					huh.NewOption("US Dollar", "USD"),
					huh.NewOption("Australian Dollar", "AUD"),
				).
				Value(&currency),
		),
	).Run()
	if err != nil {
		return err
	}

	// web
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SILVERMINT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: WEB UI"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Value(&listenAddr),
			huh.NewInput().
				Title("TLS domain").
				Description("Leave empty for plain HTTP; a domain enables ACME certificates").
				Value(&tlsDomain),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SILVERMINT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Network: %s\nRPC: %s\nTreasury: %s\nPremium: %s\nTokens/oz: %s\nRefresh: %s\nCurrency: %s\nListen: %s\n",
		network, rpcURL, treasury, premiumStr, unitsStr, intervalStr, currency, listenAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	interval, _ := time.ParseDuration(intervalStr)
	var chainID int64
	fmt.Sscanf(network, "%d", &chainID)

	gen := generatedConfig{
		ListenAddr:        listenAddr,
		RPCURL:            rpcURL,
		ChainID:           chainID,
		TreasuryAddress:   treasury,
		PremiumMultiplier: premiumStr,
		UnitsPerOunce:     unitsStr,
		RefreshInterval:   interval,
		DefaultCurrency:   currency,
	}
	if tlsDomain != "" {
		gen.TLSDomains = []string{tlsDomain}
	}

	data, err := yaml.Marshal(gen)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting mint desk...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validatePremium(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(decimal.NewFromInt(2)) {
		return fmt.Errorf("must be between 1 and 2")
	}
	return nil
}

func validatePositiveDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be positive")
	}
	return nil
}
