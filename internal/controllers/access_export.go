package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

const matrixSheet = "Матрица доступа"

// ExportMatrix отдаёт матрицу в XLSX: строки — роли, колонки — разделы,
// в ячейке — действия через запятую.
func (ctrl *AccessController) ExportMatrix(c echo.Context) error {
	m := ctrl.matrixService.Current()
	if m == nil {
		return utils.ErrorResponse(c, apperrors.ErrInternalServer, ctrl.logger)
	}

	f, err := buildMatrixWorkbook(m)
	if err != nil {
		ctrl.logger.Error("Не удалось сформировать XLSX матрицы", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("access_matrix_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

func buildMatrixWorkbook(m *authz.Matrix) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", matrixSheet); err != nil {
		return nil, err
	}

	features := authz.Features()
	header := make([]interface{}, 0, len(features)+1)
	header = append(header, "Роль")
	for _, feature := range features {
		header = append(header, feature.String())
	}
	if err := f.SetSheetRow(matrixSheet, "A1", &header); err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(matrixSheet, "A1", lastCol+"1", style)

	for i, role := range authz.Roles() {
		row := make([]interface{}, 0, len(header))
		row = append(row, role.String())
		for _, feature := range features {
			perms, _ := m.Lookup(role, feature)
			row = append(row, perms.String())
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(matrixSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(matrixSheet, "A", "A", 20)
	f.SetColWidth(matrixSheet, "B", lastCol, 28)
	return f, nil
}
