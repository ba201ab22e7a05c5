package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// ReadRows returns the rows of the selected sheet as formatted cell text.
func (xlsxReader) ReadRows(path string, opt Options) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	target, err := selectSheet(sheets, opt, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", target, err)
	}
	return rows, nil
}

func selectSheet(sheets []string, opt Options, file string) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, file, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range in workbook '%s' (%d sheets)", idx, file, len(sheets))
	}
	return sheets[idx-1], nil
}
