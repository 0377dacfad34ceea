package models

import "strconv"

type Setting struct {
	Name  string `json:"name" gorm:"primaryKey"`
	Value string `json:"value" gorm:"not null"`
}

func (Setting) TableName() string { return "settings" }

// Settings keys stored in the settings table.
const (
	SettingCanteenName = "canteen_name"
	SettingTaxPercent  = "tax_percent"
	SettingPaperWidth  = "paper_width"
	SettingAdminPIN    = "admin_password"
)

// DefaultSettings are inserted once at store initialization and never
// overwritten if already present.
var DefaultSettings = map[string]string{
	SettingCanteenName: "College Canteen",
	SettingTaxPercent:  "5.0",
	SettingPaperWidth:  "58",
	SettingAdminPIN:    "1234",
}

// SessionSettings is the typed view of the settings rows, materialized once
// per session and passed to pricing, receipt and reporting calls instead of
// re-reading the store.
type SessionSettings struct {
	CanteenName string
	TaxPercent  float64
	PaperWidth  int
	AdminPIN    string
}

// ParseSessionSettings builds a SessionSettings from raw settings rows,
// falling back to the defaults for missing or malformed values.
func ParseSessionSettings(rows []Setting) SessionSettings {
	values := map[string]string{}
	for k, v := range DefaultSettings {
		values[k] = v
	}
	for _, row := range rows {
		values[row.Name] = row.Value
	}

	s := SessionSettings{
		CanteenName: values[SettingCanteenName],
		AdminPIN:    values[SettingAdminPIN],
	}
	tax, err := strconv.ParseFloat(values[SettingTaxPercent], 64)
	if err != nil || tax < 0 {
		tax, _ = strconv.ParseFloat(DefaultSettings[SettingTaxPercent], 64)
	}
	s.TaxPercent = tax

	width, err := strconv.Atoi(values[SettingPaperWidth])
	if err != nil {
		width, _ = strconv.Atoi(DefaultSettings[SettingPaperWidth])
	}
	s.PaperWidth = width
	return s
}
