package fuellog_test

import (
	"testing"
	"time"

	"go-fleet/internal/fuellog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

func TestBuildWorkbook(t *testing.T) {
	generated := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	logs := []fuellog.FuelLog{
		{
			ID:           uuid.New(),
			Date:         time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC),
			FuelType:     "diesel",
			Quantity:     decimal.RequireFromString("45.5"),
			Unit:         fuellog.UnitLiters,
			PricePerUnit: decimal.RequireFromString("95.5"),
			TotalCost:    decimal.RequireFromString("4345.25"),
			Odometer:     12000,
			Station:      datatypes.NewJSONType(fuellog.Station{Name: "Shell MG Road"}),
			FullTank:     true,
			Vehicle:      &fuellog.FuelVehicle{RegistrationNumber: "KA-01-1234"},
			Driver:       &fuellog.FuelDriver{Name: "Ravi"},
		},
		{
			ID:           uuid.New(),
			Date:         time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC),
			FuelType:     "petrol",
			Quantity:     decimal.RequireFromString("10"),
			Unit:         fuellog.UnitLiters,
			PricePerUnit: decimal.RequireFromString("100"),
			TotalCost:    decimal.RequireFromString("1000"),
		},
	}

	buf, err := fuellog.BuildWorkbook(logs, generated)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Fuel Logs"}, f.GetSheetList())

	cell := func(axis string) string {
		v, err := f.GetCellValue("Fuel Logs", axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Fuel Logs", cell("A1"))
	assert.Equal(t, "Generated: 2026-06-01 08:30:00 UTC", cell("A2"))
	assert.Equal(t, "Date", cell("A4"))
	assert.Equal(t, "Total Cost", cell("H4"))

	assert.Equal(t, "2026-05-03", cell("A5"))
	assert.Equal(t, "KA-01-1234", cell("B5"))
	assert.Equal(t, "Ravi", cell("C5"))
	assert.Equal(t, "Shell MG Road", cell("J5"))
	assert.Equal(t, logs[1].VehicleID.String(), cell("B6"))

	formula, err := f.GetCellFormula("Fuel Logs", "H7")
	require.NoError(t, err)
	assert.Equal(t, "SUM(H5:H6)", formula)
	assert.Equal(t, "Total", cell("G7"))
}

func TestBuildWorkbook_Empty(t *testing.T) {
	buf, err := fuellog.BuildWorkbook(nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Fuel Logs")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
