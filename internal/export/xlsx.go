package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/utils"
)

// RegionsSheet is the name of the country → region sheet in exported workbooks.
const RegionsSheet = "regions"

// WriteXLSX writes one sheet per aligned indicator (countries × years) plus
// a regions sheet. Missing cells are left blank.
func WriteXLSX(path string, res *align.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range align.Indicators {
		sheet := string(name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet, err)
		}
		t := res.Tables[name]
		if err := f.SetCellValue(sheet, "A1", "country"); err != nil {
			return err
		}
		for j, y := range t.Labels {
			cell, _ := excelize.CoordinatesToCellName(j+2, 1)
			if err := f.SetCellValue(sheet, cell, y); err != nil {
				return err
			}
		}
		for r, key := range t.Keys {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetCellValue(sheet, cell, key); err != nil {
				return err
			}
			for j, v := range t.Cells[r] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(j+2, r+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	if _, err := f.NewSheet(RegionsSheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", RegionsSheet, err)
	}
	header := []any{"country", "region"}
	if err := f.SetSheetRow(RegionsSheet, "A1", &header); err != nil {
		return err
	}
	for r, c := range res.Countries {
		row := []any{c, res.CountryRegions[c]}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(RegionsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
