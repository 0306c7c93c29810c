// internal/ledger/xlsx.go
package ledger

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Workbook layout, matching the spreadsheet people keep by hand: two header
// rows, data from row 3.
const (
	colUID = iota + 1
	colCompany
	colPosition
	colSubmitted
	colViewed
	colClosed
	colApplicants
	colLocation
	colLink
)

const (
	firstDataRow = 3
	stateSheet   = "State" // pass -> highest processed UID
)

var headerLabels = []string{"UID", "Company", "Position", "Applied", "Viewed", "Closed", "Applicants", "Location", "Link"}

// XLSXStore persists the ledger as rows of an Applications-style sheet in an
// xlsx workbook. Every mutation is written back to disk by Persist.
type XLSXStore struct {
	path  string
	sheet string
	f     *excelize.File
}

// OpenXLSX opens an existing workbook. The named sheet must exist; the State
// sheet is created on first use.
func OpenXLSX(path, sheet string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		_ = f.Close()
		return nil, fmt.Errorf("workbook %s has no sheet %q", path, sheet)
	}
	if sidx, err := f.GetSheetIndex(stateSheet); err == nil && sidx < 0 {
		if _, err := f.NewSheet(stateSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create %s sheet: %w", stateSheet, err)
		}
	}
	return &XLSXStore{path: path, sheet: sheet, f: f}, nil
}

// InitXLSX creates a fresh workbook with header rows and an empty State
// sheet.
func InitXLSX(path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for i, label := range headerLabels {
		cell, err := excelize.CoordinatesToCellName(i+1, firstDataRow-1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return err
		}
	}
	if _, err := f.NewSheet(stateSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", stateSheet, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (s *XLSXStore) Close() error { return s.f.Close() }

func (s *XLSXStore) Load() ([]Record, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.sheet, err)
	}
	var out []Record
	for i := firstDataRow - 1; i < len(rows); i++ {
		row := rows[i]
		rec := Record{
			Company:       cell(row, colCompany),
			Position:      cell(row, colPosition),
			SubmittedDate: cell(row, colSubmitted),
			ViewedDate:    cell(row, colViewed),
			ClosedDate:    cell(row, colClosed),
			Location:      cell(row, colLocation),
			JobLink:       cell(row, colLink),
		}
		if v := cell(row, colUID); v != "" {
			if n, err := strconv.ParseUint(v, 10, 32); err == nil {
				rec.UID = uint32(n)
			}
		}
		if v := cell(row, colApplicants); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				rec.ApplicantCount = &n
			}
		}
		if rec == (Record{}) {
			break // first blank row ends the ledger
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *XLSXStore) Append(rec Record) error {
	recs, err := s.Load()
	if err != nil {
		return err
	}
	row := firstDataRow + len(recs)
	values := map[int]any{
		colUID:       strconv.FormatUint(uint64(rec.UID), 10),
		colCompany:   rec.Company,
		colPosition:  rec.Position,
		colSubmitted: rec.SubmittedDate,
		colViewed:    rec.ViewedDate,
		colClosed:    rec.ClosedDate,
		colLocation:  rec.Location,
		colLink:      rec.JobLink,
	}
	if rec.ApplicantCount != nil {
		values[colApplicants] = *rec.ApplicantCount
	}
	return s.setRow(row, values)
}

func (s *XLSXStore) Update(row int, patch Patch) error {
	values := map[int]any{}
	if patch.ViewedDate != nil {
		values[colViewed] = *patch.ViewedDate
	}
	if patch.ClosedDate != nil {
		values[colClosed] = *patch.ClosedDate
	}
	if patch.ApplicantCount != nil {
		values[colApplicants] = *patch.ApplicantCount
	}
	return s.setRow(firstDataRow+row, values)
}

func (s *XLSXStore) Checkpoint(pass string) (uint32, error) {
	rows, err := s.f.GetRows(stateSheet)
	if err != nil {
		return 0, fmt.Errorf("read %s sheet: %w", stateSheet, err)
	}
	for _, row := range rows {
		if cell(row, 1) != pass {
			continue
		}
		n, err := strconv.ParseUint(cell(row, 2), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("checkpoint for %s pass: %w", pass, err)
		}
		return uint32(n), nil
	}
	return 0, nil
}

func (s *XLSXStore) SetCheckpoint(pass string, uid uint32) error {
	rows, err := s.f.GetRows(stateSheet)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", stateSheet, err)
	}
	row := len(rows) + 1
	for i, r := range rows {
		if cell(r, 1) == pass {
			row = i + 1
			break
		}
	}
	if err := s.setCell(stateSheet, 1, row, pass); err != nil {
		return err
	}
	return s.setCell(stateSheet, 2, row, strconv.FormatUint(uint64(uid), 10))
}

func (s *XLSXStore) Persist() error {
	if err := s.f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

func (s *XLSXStore) setRow(row int, values map[int]any) error {
	for col, v := range values {
		if err := s.setCell(s.sheet, col, row, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *XLSXStore) setCell(sheet string, col, row int, v any) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := s.f.SetCellValue(sheet, name, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, name, err)
	}
	return nil
}

// cell returns the 1-based column value of a GetRows row, or "" past its end.
func cell(row []string, col int) string {
	if col-1 >= len(row) {
		return ""
	}
	return row[col-1]
}

var _ Store = (*XLSXStore)(nil)
