package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"gstinvoice/internal/models"
)

type shopProfileFile struct {
	Shop models.Shop `toml:"shop"`
}

// DefaultShopProfile is the shop seeded on a fresh database when no profile
// file is configured.
func DefaultShopProfile() *models.Shop {
	return &models.Shop{
		Name:          "SAI PAINTS",
		GSTIN:         "37PEFPS6526R1Z6",
		Address:       "#17/505-A2, Kasapuram Road, GUNTAKAL-515 801, A.P.",
		Cell:          "8639034294",
		State:         "A.P.",
		StateCode:     "37",
		InvoicePrefix: models.DefaultInvoicePrefix,
		BankName:      "STATE BANK OF INDIA",
		BankAccountNo: "44758266961",
		BankIFSC:      "SBIN0013021",
		IsDefault:     true,
	}
}

// LoadShopProfile decodes a [shop] table from a TOML file. An empty
// filename yields the built-in profile.
func LoadShopProfile(filename string) (*models.Shop, error) {
	if filename == "" {
		return DefaultShopProfile(), nil
	}

	var f shopProfileFile
	if _, err := toml.DecodeFile(filename, &f); err != nil {
		return nil, errors.Wrap(err, "failed to load shop profile")
	}

	shop := &f.Shop
	if shop.Name == "" {
		return nil, errors.New("shop profile: name is required")
	}
	if shop.StateCode == "" {
		return nil, errors.New("shop profile: state_code is required")
	}
	if shop.InvoicePrefix == "" {
		shop.InvoicePrefix = models.DefaultInvoicePrefix
	}
	shop.IsDefault = true
	return shop, nil
}
