package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "invoices", cfg.Minio.Bucket)
	assert.Equal(t, "noreply@sai-paints.in", cfg.SMTP.From)
	assert.Equal(t, 24*time.Hour, cfg.Redis.InvoiceTTL)
	assert.Equal(t, time.Hour, cfg.Jobs.PDFAuditInterval)
	assert.Equal(t, uuid.Nil, cfg.ShopID())
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	shopID := uuid.New()
	t.Setenv("GSTINVOICE_SERVER_PORT", "9090")
	t.Setenv("GSTINVOICE_SHOP_ID", shopID.String())
	t.Setenv("GSTINVOICE_MINIO_BUCKET", "tax-invoices")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, shopID, cfg.ShopID())
	assert.Equal(t, "tax-invoices", cfg.Minio.Bucket)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "app:\n  env: production\nredis:\n  invoice_ttl: 2h\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Hour, cfg.Redis.InvoiceTTL)
}

func TestLoad_RejectsBadShopID(t *testing.T) {
	t.Setenv("GSTINVOICE_SHOP_ID", "not-a-uuid")
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	t.Setenv("GSTINVOICE_APP_TIMEZONE", "Mars/Olympus")
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadShopProfile_Default(t *testing.T) {
	shop, err := LoadShopProfile("")
	require.NoError(t, err)
	assert.Equal(t, "SAI PAINTS", shop.Name)
	assert.Equal(t, "37", shop.StateCode)
	assert.Equal(t, "SP", shop.InvoicePrefix)
	assert.True(t, shop.IsDefault)
}

func TestLoadShopProfile_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.toml")
	content := `
[shop]
name = "LAKSHMI HARDWARE"
gstin = "29ABCDE1234F1Z5"
state = "Karnataka"
state_code = "29"
bank_name = "CANARA BANK"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	shop, err := LoadShopProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "LAKSHMI HARDWARE", shop.Name)
	assert.Equal(t, "29", shop.StateCode)
	assert.Equal(t, "SP", shop.InvoicePrefix)
	assert.True(t, shop.IsDefault)
}

func TestLoadShopProfile_Errors(t *testing.T) {
	_, err := LoadShopProfile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "shop.toml")
	require.NoError(t, os.WriteFile(path, []byte("[shop]\nname = \"X\"\n"), 0o600))
	_, err = LoadShopProfile(path)
	assert.EqualError(t, err, "shop profile: state_code is required")
}
