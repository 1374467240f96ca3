package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"github.com/bitfantasy/vulcan/internal/pdm/repository"
	"github.com/bitfantasy/vulcan/internal/shared/cadengine"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// BOMService 项目BOM服务
type BOMService struct {
	repo        *repository.BOMRepository
	projectRepo *repository.ProjectRepository
	storage     *StorageService
	cad         *cadengine.Client
}

func NewBOMService(repo *repository.BOMRepository, projectRepo *repository.ProjectRepository) *BOMService {
	return &BOMService{repo: repo, projectRepo: projectRepo}
}

func (s *BOMService) SetStorage(storage *StorageService) {
	s.storage = storage
}

func (s *BOMService) SetCADClient(cad *cadengine.Client) {
	s.cad = cad
}

// CreateBOMRequest 创建BOM请求
type CreateBOMRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// UpdateBOMRequest 更新BOM请求
type UpdateBOMRequest struct {
	Name        *string `json:"name"`
	Version     *string `json:"version"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// BOMItemRequest BOM行项请求
type BOMItemRequest struct {
	Category        string   `json:"category"`
	Name            string   `json:"name" binding:"required"`
	Specification   string   `json:"specification"`
	Quantity        float64  `json:"quantity"`
	Unit            string   `json:"unit"`
	Reference       string   `json:"reference"`
	Manufacturer    string   `json:"manufacturer"`
	ManufacturerPN  string   `json:"manufacturer_pn"`
	UnitPrice       *float64 `json:"unit_price"`
	LeadTimeDays    *int     `json:"lead_time_days"`
	ProcurementType string   `json:"procurement_type"`
	MaterialType    string   `json:"material_type"`
	ProcessType     string   `json:"process_type"`
	DrawingNo       string   `json:"drawing_no"`
	WeightGrams     *float64 `json:"weight_grams"`
	Notes           string   `json:"notes"`
}

// ImportResult 导入结果
type ImportResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// List 获取BOM列表
func (s *BOMService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProjectBOM, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取BOM详情，带行项
func (s *BOMService) Get(ctx context.Context, id string) (*entity.ProjectBOM, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建BOM
func (s *BOMService) Create(ctx context.Context, userID string, req *CreateBOMRequest) (*entity.ProjectBOM, error) {
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	version := req.Version
	if version == "" {
		version = "v1.0"
	}

	bom := &entity.ProjectBOM{
		ID:          uuid.New().String()[:32],
		ProjectID:   req.ProjectID,
		Version:     version,
		Name:        req.Name,
		Status:      entity.BOMStatusDraft,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(ctx, bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// Update 更新BOM基本信息
func (s *BOMService) Update(ctx context.Context, id string, req *UpdateBOMRequest) (*entity.ProjectBOM, error) {
	bom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bom.Status == entity.BOMStatusFrozen {
		return nil, errors.New("已冻结的BOM不能修改")
	}

	if req.Name != nil {
		bom.Name = *req.Name
	}
	if req.Version != nil {
		bom.Version = *req.Version
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.BOMStatusDraft, entity.BOMStatusPublished, entity.BOMStatusFrozen:
			bom.Status = *req.Status
		default:
			return nil, errors.New("无效的BOM状态")
		}
	}
	if req.Description != nil {
		bom.Description = *req.Description
	}
	bom.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// Delete 删除BOM及其行项
func (s *BOMService) Delete(ctx context.Context, id string) error {
	bom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bom.Status == entity.BOMStatusFrozen {
		return errors.New("已冻结的BOM不能删除")
	}
	return s.repo.Delete(ctx, id)
}

// AddItem 添加BOM行项
func (s *BOMService) AddItem(ctx context.Context, bomID string, req *BOMItemRequest) (*entity.BOMItem, error) {
	bom, err := s.repo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	if bom.Status == entity.BOMStatusFrozen {
		return nil, errors.New("已冻结的BOM不能修改")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	procurementType := req.ProcurementType
	if procurementType == "" {
		procurementType = "buy"
	}

	item := &entity.BOMItem{
		ID:              uuid.New().String()[:32],
		BOMID:           bomID,
		ItemNumber:      len(bom.Items) + 1,
		Category:        req.Category,
		Name:            req.Name,
		Specification:   req.Specification,
		Quantity:        quantity,
		Unit:            unit,
		Reference:       req.Reference,
		Manufacturer:    req.Manufacturer,
		ManufacturerPN:  req.ManufacturerPN,
		UnitPrice:       req.UnitPrice,
		LeadTimeDays:    req.LeadTimeDays,
		ProcurementType: procurementType,
		MaterialType:    req.MaterialType,
		ProcessType:     req.ProcessType,
		DrawingNo:       req.DrawingNo,
		WeightGrams:     req.WeightGrams,
		Notes:           req.Notes,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.repo.RefreshTotals(ctx, bomID); err != nil {
		zap.L().Warn("refresh bom totals failed", zap.String("bom_id", bomID), zap.Error(err))
	}
	return item, nil
}

// UpdateItem 更新BOM行项
func (s *BOMService) UpdateItem(ctx context.Context, itemID string, req *BOMItemRequest) (*entity.BOMItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Category = req.Category
	item.Name = req.Name
	item.Specification = req.Specification
	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	item.Reference = req.Reference
	item.Manufacturer = req.Manufacturer
	item.ManufacturerPN = req.ManufacturerPN
	item.UnitPrice = req.UnitPrice
	item.LeadTimeDays = req.LeadTimeDays
	if req.ProcurementType != "" {
		item.ProcurementType = req.ProcurementType
	}
	item.MaterialType = req.MaterialType
	item.ProcessType = req.ProcessType
	item.DrawingNo = req.DrawingNo
	item.WeightGrams = req.WeightGrams
	item.Notes = req.Notes
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.repo.RefreshTotals(ctx, item.BOMID); err != nil {
		zap.L().Warn("refresh bom totals failed", zap.String("bom_id", item.BOMID), zap.Error(err))
	}
	return item, nil
}

// DeleteItem 删除BOM行项
func (s *BOMService) DeleteItem(ctx context.Context, itemID string) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.repo.RefreshTotals(ctx, item.BOMID); err != nil {
		zap.L().Warn("refresh bom totals failed", zap.String("bom_id", item.BOMID), zap.Error(err))
	}
	return nil
}

var bomExportHeaders = []string{
	"序号", "分类", "名称", "规格", "数量", "单位", "参考编号",
	"制造商", "制造商料号", "单价", "采购类型", "材质", "工艺", "图纸编号", "备注",
}

// Export 导出BOM为xlsx
func (s *BOMService) Export(ctx context.Context, bomID string) (*excelize.File, string, error) {
	bom, err := s.repo.FindByID(ctx, bomID)
	if err != nil {
		return nil, "", fmt.Errorf("bom not found: %w", err)
	}

	items, err := s.repo.ListItems(ctx, bomID)
	if err != nil {
		return nil, "", fmt.Errorf("list items: %w", err)
	}

	f := excelize.NewFile()
	sheet := "BOM"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range bomExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.ItemNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Name)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Specification)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.Reference)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.Manufacturer)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.ManufacturerPN)
		if item.UnitPrice != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *item.UnitPrice)
		}
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), item.ProcurementType)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), item.MaterialType)
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), item.ProcessType)
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), item.DrawingNo)
		f.SetCellValue(sheet, fmt.Sprintf("O%d", row), item.Notes)
	}

	colWidths := []float64{6, 10, 20, 20, 8, 6, 14, 16, 16, 10, 10, 12, 10, 14, 20}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("BOM_%s_%s.xlsx", bom.Name, bom.Version)
	return f, filename, nil
}

// ImportExcel 从Excel导入BOM行项
func (s *BOMService) ImportExcel(ctx context.Context, bomID string, f *excelize.File) (*ImportResult, error) {
	bom, err := s.repo.FindByID(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("bom not found: %w", err)
	}
	if bom.Status != entity.BOMStatusDraft {
		return nil, errors.New("只有草稿状态的BOM才能导入")
	}

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read excel: %w", err)
	}

	result := &ImportResult{}
	if len(rows) < 2 {
		return result, nil
	}

	itemNum := len(bom.Items)
	var items []entity.BOMItem
	for _, row := range rows[1:] { // 跳过表头
		if len(row) < 3 || row[2] == "" {
			result.Failed++
			continue
		}
		itemNum++

		qty := 1.0
		if len(row) > 4 {
			if q, parseErr := strconv.ParseFloat(strings.TrimSpace(row[4]), 64); parseErr == nil && q > 0 {
				qty = q
			}
		}

		item := entity.BOMItem{
			ID:              uuid.New().String()[:32],
			BOMID:           bomID,
			ItemNumber:      itemNum,
			Category:        cell(row, 1),
			Name:            row[2],
			Specification:   cell(row, 3),
			Quantity:        qty,
			Unit:            defaultStr(cell(row, 5), "pcs"),
			Reference:       cell(row, 6),
			Manufacturer:    cell(row, 7),
			ManufacturerPN:  cell(row, 8),
			ProcurementType: defaultStr(cell(row, 10), "buy"),
			MaterialType:    cell(row, 11),
			ProcessType:     cell(row, 12),
			DrawingNo:       cell(row, 13),
			Notes:           cell(row, 14),
		}
		if len(row) > 9 {
			if p, parseErr := strconv.ParseFloat(strings.TrimSpace(row[9]), 64); parseErr == nil {
				item.UnitPrice = &p
			}
		}

		items = append(items, item)
		result.Success++
	}

	if len(items) > 0 {
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return nil, fmt.Errorf("batch create: %w", err)
		}
		if err := s.repo.RefreshTotals(ctx, bomID); err != nil {
			zap.L().Warn("refresh bom totals failed", zap.String("bom_id", bomID), zap.Error(err))
		}
	}
	return result, nil
}

// ImportTSV 从旧制表符分隔清单导入BOM行项（GBK编码）
func (s *BOMService) ImportTSV(ctx context.Context, bomID string, reader io.Reader) (*ImportResult, error) {
	bom, err := s.repo.FindByID(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("bom not found: %w", err)
	}
	if bom.Status != entity.BOMStatusDraft {
		return nil, errors.New("只有草稿状态的BOM才能导入")
	}

	// GBK → UTF-8
	utf8Reader := transform.NewReader(reader, simplifiedchinese.GBK.NewDecoder())

	result := &ImportResult{}
	itemNum := len(bom.Items)

	var items []entity.BOMItem
	scanner := bufio.NewScanner(utf8Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		// 第一行是表头，跳过
		if lineNo == 1 {
			continue
		}

		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.Trim(fields[i], "\"")
		}

		// 至少需要4列（序号、数量、参考编号、名称）
		if len(fields) < 4 || fields[3] == "" {
			result.Failed++
			continue
		}

		itemNum++

		qty := 1.0
		if q, parseErr := strconv.ParseFloat(fields[1], 64); parseErr == nil && q > 0 {
			qty = q
		}

		// 名称：逗号前的部分作为Name，完整作为Specification
		fullName := fields[3]
		name := fullName
		if idx := strings.Index(fullName, ","); idx > 0 {
			name = fullName[:idx]
		}

		item := entity.BOMItem{
			ID:            uuid.New().String()[:32],
			BOMID:         bomID,
			ItemNumber:    itemNum,
			Name:          name,
			Specification: fullName,
			Quantity:      qty,
			Unit:          "pcs",
			Reference:     fields[2],
		}
		if len(fields) > 4 {
			item.Manufacturer = fields[4]
		}
		if len(fields) > 5 {
			item.Notes = fields[5]
		}
		if len(fields) > 6 {
			item.ManufacturerPN = fields[6]
		}

		items = append(items, item)
		result.Success++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tsv: %w", err)
	}

	if len(items) > 0 {
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return nil, fmt.Errorf("batch create: %w", err)
		}
		if err := s.repo.RefreshTotals(ctx, bomID); err != nil {
			zap.L().Warn("refresh bom totals failed", zap.String("bom_id", bomID), zap.Error(err))
		}
	}
	return result, nil
}

// AttachFile 上传行项附件到对象存储
func (s *BOMService) AttachFile(ctx context.Context, itemID, fileName string, reader io.Reader, size int64, contentType string) (*entity.BOMItem, error) {
	if s.storage == nil {
		return nil, errors.New("对象存储未配置")
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.storage.Upload(ctx, fileName, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	item.FileID = &uploaded.ObjectName
	item.FileName = fileName
	item.UpdatedAt = time.Now()
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AnalyzeGeometry 提交行项的STEP模型做几何分析并等待结果
func (s *BOMService) AnalyzeGeometry(ctx context.Context, itemID string) (*entity.BOMItem, error) {
	if s.cad == nil {
		return nil, errors.New("CAD几何服务未配置")
	}
	if s.storage == nil {
		return nil, errors.New("对象存储未配置")
	}

	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.FileID == nil || *item.FileID == "" {
		return nil, errors.New("行项没有关联模型文件")
	}

	file, err := s.storage.Download(ctx, *item.FileID)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	item.GeometryStatus = entity.GeometryStatusProcessing
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	submitted, err := s.cad.SubmitSTEP(ctx, item.FileName, file)
	if err != nil {
		item.GeometryStatus = entity.GeometryStatusFailed
		s.repo.UpdateItem(ctx, item)
		return nil, fmt.Errorf("submit geometry job: %w", err)
	}

	result, err := s.cad.WaitForResult(ctx, submitted.JobID, 0)
	if err != nil {
		item.GeometryStatus = entity.GeometryStatusFailed
		s.repo.UpdateItem(ctx, item)
		return nil, fmt.Errorf("wait geometry result: %w", err)
	}

	if result.Status == cadengine.JobStatusDone {
		item.GeometryStatus = entity.GeometryStatusDone
		item.VolumeMM3 = result.VolumeMM3
		item.ThumbnailURL = result.ThumbnailURL
	} else {
		item.GeometryStatus = entity.GeometryStatusFailed
		zap.L().Warn("geometry analysis failed",
			zap.String("item_id", itemID), zap.String("error", result.Error))
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
