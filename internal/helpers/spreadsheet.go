package helpers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// IsSpreadsheet reports whether the filename looks like an Excel workbook.
func IsSpreadsheet(filename string) bool {
	ext := strings.ToLower(filename)
	return strings.HasSuffix(ext, ".xlsx") || strings.HasSuffix(ext, ".xlsm")
}

// ExtractChartData prefills a chart snapshot from the first sheet of a
// workbook: column A becomes the labels, column B the values. Rows without
// a numeric second cell are skipped, as is a header row where column B is
// not a number.
func ExtractChartData(fileBytes []byte) ([]string, []float64, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %v", sheets[0], err)
	}

	labels := []string{}
	data := []float64{}
	for _, row := range rows {
		if len(row) < 2 || row[0] == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		labels = append(labels, row[0])
		data = append(data, value)
	}
	return labels, data, nil
}
