package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Raw DTM workbook column headers. The typo in the state column is present
// in the published files.
const (
	dtmColState    = "STATE OF DISPLACEMET"
	dtmColLocality = "LOCALITY OF DISPLACEMENT"
	dtmColCode     = "LOCALITY CODE"
	dtmColIDPs     = "IDPs"
	dtmColHHs      = "HHs"
)

// dtmFixedColumns are headers that are not origin-region breakdowns.
var dtmFixedColumns = map[string]bool{
	dtmColState:    true,
	dtmColLocality: true,
	dtmColCode:     true,
	dtmColIDPs:     true,
	dtmColHHs:      true,
}

// LoadIDPWorkbook reads locality displacement records directly from a raw
// DTM XLSX export, as an alternative to the cleaned CSV. Headers that are
// not one of the fixed DTM columns are treated as origin-region counts and
// normalized to origin_<region> keys.
func LoadIDPWorkbook(path, sheetName string) ([]IDPRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open IDP workbook")
	}

	sheet, err := workbookSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("dataset: IDP workbook sheet is empty")
	}

	head := make(header)
	var originCols []int
	for i, cell := range sheet.Rows[0].Cells {
		name := strings.TrimSpace(cell.String())
		if name == "" {
			continue
		}
		head[name] = i
		if !dtmFixedColumns[name] {
			originCols = append(originCols, i)
		}
	}
	for _, required := range []string{dtmColState, dtmColLocality, dtmColCode, dtmColIDPs} {
		if _, ok := head[required]; !ok {
			return nil, eris.Errorf("dataset: IDP workbook is missing required column %q", required)
		}
	}

	var records []IDPRecord
	for _, row := range sheet.Rows[1:] {
		cells := rowStrings(row)

		rec := IDPRecord{
			LocalityCode:    head.get(cells, dtmColCode),
			LocalityName:    head.get(cells, dtmColLocality),
			RegionName:      head.get(cells, dtmColState),
			TotalIDPs:       parseCount(head.get(cells, dtmColIDPs)),
			TotalHouseholds: parseCount(head.get(cells, dtmColHHs)),
		}
		if rec.LocalityCode == "" {
			continue
		}

		for _, i := range originCols {
			if i >= len(cells) {
				continue
			}
			n := parseCount(strings.TrimSpace(cells[i]))
			if n == 0 {
				continue
			}
			if rec.OriginIDPs == nil {
				rec.OriginIDPs = make(map[string]int64)
			}
			rec.OriginIDPs[originKey(headerName(sheet, i))] = n
		}

		records = append(records, rec)
	}

	zap.L().Info("dataset: loaded IDP workbook records",
		zap.String("sheet", sheet.Name),
		zap.Int("count", len(records)),
	)
	return records, nil
}

func workbookSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("dataset: sheet %q not found in IDP workbook", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: IDP workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

func headerName(sheet *xlsx.Sheet, col int) string {
	if col < len(sheet.Rows[0].Cells) {
		return strings.TrimSpace(sheet.Rows[0].Cells[col].String())
	}
	return ""
}

// originKey normalizes an origin-region header to the origin_<region> form
// used by the cleaned tables ("Aj Jazirah" -> "origin_aj_jazirah").
func originKey(region string) string {
	k := strings.ToLower(strings.TrimSpace(region))
	k = strings.ReplaceAll(k, " ", "_")
	return originPrefix + k
}
