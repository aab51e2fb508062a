package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/presenter"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── Export errors ──

var (
	ErrExportStaffOnly    = pkgerrors.New(pkgerrors.KindPermissionDenied, "only staff can export exeat requests")
	ErrExportNoRequests   = pkgerrors.New(pkgerrors.KindNotFound, "no exeat requests match this export")
	ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindUpstream, "could not generate the Excel file")
)

// ExportService builds spreadsheet exports for staff.
type ExportService interface {
	// ExportRequests writes the requests matching status (all when empty)
	// as .xlsx and returns the suggested file name.
	ExportRequests(ctx context.Context, viewer *session.Snapshot, status string) (*bytes.Buffer, string, error)
}

type exportService struct {
	api    ExeatAPI
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(api ExeatAPI, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{api: api, loc: loc, logger: logger, now: time.Now}
}

var exportHeaders = []string{
	"ID", "Matric No", "Student", "Category", "Reason", "Destination",
	"Departure", "Return", "Days", "Status", "Overdue", "Created",
}

// ═══════════════════════════════════════════════════════════
// ExportRequests
// ═══════════════════════════════════════════════════════════
//
// Sheet "Requests": one row per request, ordered by departure date.
// Sheet "Summary": request count per status in pipeline order.

func (s *exportService) ExportRequests(ctx context.Context, viewer *session.Snapshot, status string) (*bytes.Buffer, string, error) {
	if !viewer.Roles.IsStaff() {
		return nil, "", ErrExportStaffOnly
	}
	f := upstream.ExeatFilter{}
	if status != "" {
		st, ok := workflow.ParseStatus(status)
		if !ok {
			return nil, "", ErrUnknownStatusQuery
		}
		f.Status = string(st)
	}

	// 1. fetch
	list, err := s.api.ListExeatRequests(ctx, viewer.Token, f)
	if err != nil {
		return nil, "", err
	}
	if len(list) == 0 {
		return nil, "", ErrExportNoRequests
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].DepartureDate != list[j].DepartureDate {
			return list[i].DepartureDate < list[j].DepartureDate
		}
		return list[i].ID < list[j].ID
	})

	// 2. workbook
	x := excelize.NewFile()
	defer x.Close()

	const sheet = "Requests"
	idx, _ := x.NewSheet(sheet)
	x.SetActiveSheet(idx)
	x.DeleteSheet("Sheet1")

	headerStyle, _ := x.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	overdueStyle, _ := x.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})

	for i, h := range exportHeaders {
		x.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	x.SetCellStyle(sheet, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)
	x.SetColWidth(sheet, "A", "B", 14)
	x.SetColWidth(sheet, "C", "C", 24)
	x.SetColWidth(sheet, "D", "D", 12)
	x.SetColWidth(sheet, "E", "F", 30)
	x.SetColWidth(sheet, "G", "I", 12)
	x.SetColWidth(sheet, "J", "J", 24)
	x.SetColWidth(sheet, "K", "L", 18)

	now := s.now().In(s.loc)
	counts := make(map[string]int)
	row := 2
	for i := range list {
		r := &list[i]
		st, known := r.WorkflowStatus()
		label := presenter.StatusBadge(workflow.Status(r.Status)).Label
		counts[r.Status]++

		overdue := ""
		if known && showsCountdown(st) {
			if rem := countdown.Calculate(now, r.DepartureDate, r.ReturnDate); rem.Valid && rem.IsOverdue {
				overdue = fmt.Sprintf("%dd %dh", rem.Days, rem.Hours)
				x.SetCellStyle(sheet, cell("K", row), cell("K", row), overdueStyle)
			}
		}

		values := []interface{}{
			r.ID,
			r.MatricNo,
			r.StudentName(),
			presenter.Category(r.CategoryID, r.Medical()).Name,
			r.Reason,
			r.Destination,
			r.DepartureDate,
			r.ReturnDate,
			countdown.DurationDays(r.DepartureDate, r.ReturnDate),
			label,
			overdue,
			formatCreated(r, s.loc),
		}
		for c, v := range values {
			x.SetCellValue(sheet, cell(colName(c), row), v)
		}
		row++
	}
	x.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	s.writeSummary(x, counts, headerStyle)

	// 3. buffer
	buf := new(bytes.Buffer)
	if err := x.Write(buf); err != nil {
		s.logger.Error("write excel failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	scope := "all"
	if f.Status != "" {
		scope = f.Status
	}
	filename := fmt.Sprintf("exeat_requests_%s_%s.xlsx", scope, now.Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) writeSummary(x *excelize.File, counts map[string]int, headerStyle int) {
	const sheet = "Summary"
	x.NewSheet(sheet)
	x.SetCellValue(sheet, "A1", "Status")
	x.SetCellValue(sheet, "B1", "Requests")
	x.SetCellStyle(sheet, "A1", "B1", headerStyle)
	x.SetColWidth(sheet, "A", "A", 28)

	row := 2
	for _, info := range workflow.Registry() {
		n, ok := counts[string(info.Status)]
		if !ok {
			continue
		}
		x.SetCellValue(sheet, cell("A", row), info.Label)
		x.SetCellValue(sheet, cell("B", row), n)
		delete(counts, string(info.Status))
		row++
	}
	// whatever remains is unregistered
	rest := make([]string, 0, len(counts))
	for st := range counts {
		rest = append(rest, st)
	}
	sort.Strings(rest)
	for _, st := range rest {
		x.SetCellValue(sheet, cell("A", row), presenter.StatusBadge(workflow.Status(st)).Label)
		x.SetCellValue(sheet, cell("B", row), counts[st])
		row++
	}
}

func formatCreated(r *model.ExeatRequest, loc *time.Location) string {
	if r.CreatedAt.IsZero() {
		return ""
	}
	return r.CreatedAt.In(loc).Format("2006-01-02 15:04")
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
