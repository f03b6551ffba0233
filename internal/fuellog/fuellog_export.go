package fuellog

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Fuel Logs"

var exportHeaders = []string{
	"Date", "Vehicle", "Driver", "Fuel Type", "Quantity", "Unit",
	"Price / Unit", "Total Cost", "Odometer", "Station", "Full Tank", "Notes",
}

// BuildWorkbook renders logs as a single-sheet xlsx workbook with a title
// row, a header row and a grand total.
func BuildWorkbook(logs []FuelLog, generated time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(exportSheet, "A1", "Fuel Logs")
	_ = f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(exportSheet, "A2", fmt.Sprintf("Generated: %s", generated.UTC().Format("2006-01-02 15:04:05 UTC")))

	const headerRow = 4
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(exportSheet, cell, h)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}
	_ = f.SetColWidth(exportSheet, "A", "L", 16)

	row := headerRow
	for _, l := range logs {
		row++
		vehicle, driver := l.VehicleID.String(), ""
		if l.Vehicle != nil {
			vehicle = l.Vehicle.RegistrationNumber
		}
		if l.Driver != nil {
			driver = l.Driver.Name
		}
		values := []any{
			l.Date.UTC().Format("2006-01-02"),
			vehicle,
			driver,
			l.FuelType,
			l.Quantity.InexactFloat64(),
			l.Unit,
			l.PricePerUnit.InexactFloat64(),
			l.TotalCost.InexactFloat64(),
			l.Odometer,
			l.Station.Data().Name,
			l.FullTank,
			l.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if len(logs) > 0 {
		totalRow := row + 1
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("G%d", totalRow), "Total")
		_ = f.SetCellFormula(exportSheet, fmt.Sprintf("H%d", totalRow), fmt.Sprintf("SUM(H%d:H%d)", headerRow+1, row))
		_ = f.SetCellStyle(exportSheet, fmt.Sprintf("G%d", headerRow+1), fmt.Sprintf("H%d", totalRow), moneyStyle)
	}

	return f.WriteToBuffer()
}
