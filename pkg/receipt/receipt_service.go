package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"grocery-price-tracker/domain"
	"grocery-price-tracker/entities"
	"grocery-price-tracker/internal/utils/storage"
	"grocery-price-tracker/pkg/ocr"
)

type (
	ReceiptService interface {
		CreateReceipt(ctx context.Context, req domain.CreateReceiptRequest, userID string) (domain.ReceiptResponse, error)
		GetReceipts(ctx context.Context, userID string, supermarket, dateFrom, dateTo string, page, pageSize int) (domain.ReceiptListResponse, error)
		GetReceiptByID(ctx context.Context, receiptID, userID string) (domain.ReceiptResponse, error)
		UpdateReceipt(ctx context.Context, receiptID string, req domain.UpdateReceiptRequest, userID string) (domain.ReceiptResponse, error)
		DeleteReceipt(ctx context.Context, receiptID, userID string) error
		ScanReceipt(ctx context.Context, file *multipart.FileHeader, userID string) (domain.ScanReceiptResponse, error)
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		extractor         ocr.Extractor
		s3                storage.AwsS3
		maxUploadSize     int64
	}
)

func NewReceiptService(receiptRepository ReceiptRepository, extractor ocr.Extractor, s3 storage.AwsS3, maxUploadSize int64) ReceiptService {
	return &receiptService{
		receiptRepository: receiptRepository,
		extractor:         extractor,
		s3:                s3,
		maxUploadSize:     maxUploadSize,
	}
}

func (s *receiptService) CreateReceipt(ctx context.Context, req domain.CreateReceiptRequest, userID string) (domain.ReceiptResponse, error) {
	if len(req.Items) == 0 {
		return domain.ReceiptResponse{}, domain.ErrEmptyItemList
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return domain.ReceiptResponse{}, domain.ErrInvalidPurchaseDate
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReceiptResponse{}, domain.ErrParseUUID
	}

	items := make([]*entities.Item, 0, len(req.Items))
	total := decimal.Zero
	for _, itemReq := range req.Items {
		item, err := newItem(itemReq)
		if err != nil {
			return domain.ReceiptResponse{}, err
		}
		total = total.Add(item.Contribution())
		items = append(items, item)
	}

	receipt := &entities.Receipt{
		ID:              uuid.New(),
		UserID:          userUUID,
		SupermarketName: req.SupermarketName,
		PurchaseDate:    purchaseDate,
		TotalAmount:     total,
		Currency:        req.Currency,
		ImageURL:        req.ImageURL,
		Notes:           req.Notes,
	}

	if err := s.receiptRepository.CreateWithItems(ctx, receipt, items); err != nil {
		return domain.ReceiptResponse{}, err
	}

	receipt.Items = items
	return toReceiptResponse(receipt), nil
}

func (s *receiptService) GetReceipts(ctx context.Context, userID string, supermarket, dateFrom, dateTo string, page, pageSize int) (domain.ReceiptListResponse, error) {
	if page < 1 {
		return domain.ReceiptListResponse{}, domain.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return domain.ReceiptListResponse{}, domain.ErrInvalidPageSize
	}

	filter := ListFilter{Supermarket: supermarket}
	if dateFrom != "" {
		from, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return domain.ReceiptListResponse{}, domain.ErrInvalidDateRange
		}
		filter.DateFrom = &from
	}
	if dateTo != "" {
		to, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return domain.ReceiptListResponse{}, domain.ErrInvalidDateRange
		}
		filter.DateTo = &to
	}

	receipts, total, err := s.receiptRepository.List(ctx, userID, filter, page, pageSize)
	if err != nil {
		return domain.ReceiptListResponse{}, err
	}

	responses := make([]domain.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		responses = append(responses, toReceiptResponse(r))
	}

	return domain.ReceiptListResponse{
		Receipts:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *receiptService) GetReceiptByID(ctx context.Context, receiptID, userID string) (domain.ReceiptResponse, error) {
	receipt, err := s.receiptRepository.GetByIDForUser(ctx, receiptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptResponse{}, err
	}
	return toReceiptResponse(receipt), nil
}

func (s *receiptService) UpdateReceipt(ctx context.Context, receiptID string, req domain.UpdateReceiptRequest, userID string) (domain.ReceiptResponse, error) {
	receipt, err := s.receiptRepository.GetByIDForUser(ctx, receiptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptResponse{}, err
	}

	if req.SupermarketName != nil {
		receipt.SupermarketName = *req.SupermarketName
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return domain.ReceiptResponse{}, domain.ErrInvalidPurchaseDate
		}
		receipt.PurchaseDate = purchaseDate
	}
	if req.Currency != nil {
		receipt.Currency = *req.Currency
	}
	if req.Notes != nil {
		receipt.Notes = *req.Notes
	}

	if err := s.receiptRepository.Update(ctx, receipt); err != nil {
		return domain.ReceiptResponse{}, err
	}

	return toReceiptResponse(receipt), nil
}

func (s *receiptService) DeleteReceipt(ctx context.Context, receiptID, userID string) error {
	receipt, err := s.receiptRepository.GetByIDForUser(ctx, receiptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReceiptNotFound
		}
		return err
	}

	if receipt.ImageURL != "" && s.s3 != nil && s.s3.Configured() {
		if objectKey := s.s3.GetObjectKeyFromLink(receipt.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(objectKey); err != nil {
				log.Warnf("failed to delete receipt image %s: %v", objectKey, err)
			}
		}
	}

	return s.receiptRepository.DeleteWithItems(ctx, receipt.ID.String())
}

// ScanReceipt runs OCR extraction over an uploaded image. The extraction
// happens before any database write; the caller reviews the result and
// submits it through CreateReceipt.
func (s *receiptService) ScanReceipt(ctx context.Context, file *multipart.FileHeader, userID string) (domain.ScanReceiptResponse, error) {
	if file.Size > s.maxUploadSize {
		return domain.ScanReceiptResponse{}, domain.ErrFileTooLarge
	}

	mimeType := file.Header.Get("Content-Type")
	if !allowedImageType(mimeType) {
		return domain.ScanReceiptResponse{}, domain.ErrInvalidImageFormat
	}

	src, err := file.Open()
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	var imageURL string
	if s.s3 != nil && s.s3.Configured() {
		fileName := fmt.Sprintf("receipt-%s-%s", userID, uuid.New().String())
		objectKey, err := s.s3.UploadFile(fileName, file, "receipts", storage.AllowImage...)
		if err != nil {
			log.Warnf("failed to upload receipt image: %v", err)
		} else {
			imageURL = s.s3.GetPublicLinkKey(objectKey)
		}
	}

	result, err := s.extractor.Extract(ctx, data, mimeType)
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	result.ImageURL = imageURL
	return result, nil
}

func newItem(req domain.CreateItemRequest) (*entities.Item, error) {
	if req.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
		quantity = *req.Quantity
	}

	return &entities.Item{
		ID:       uuid.New(),
		Name:     req.Name,
		Brand:    req.Brand,
		Price:    req.Price,
		Quantity: quantity,
		Unit:     req.Unit,
	}, nil
}

func allowedImageType(mimeType string) bool {
	if mimeType == "application/octet-stream" {
		// some browsers send HEIC as octet-stream
		return true
	}
	for _, t := range storage.AllowImage {
		if t == mimeType {
			return true
		}
	}
	return false
}

func toReceiptResponse(receipt *entities.Receipt) domain.ReceiptResponse {
	items := make([]domain.ItemResponse, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		items = append(items, toItemResponse(item))
	}

	return domain.ReceiptResponse{
		ID:              receipt.ID.String(),
		SupermarketName: receipt.SupermarketName,
		PurchaseDate:    receipt.PurchaseDate.Format("2006-01-02"),
		TotalAmount:     receipt.TotalAmount,
		Currency:        receipt.Currency,
		ImageURL:        receipt.ImageURL,
		Notes:           receipt.Notes,
		Items:           items,
		CreatedAt:       receipt.CreatedAt,
	}
}

func toItemResponse(item *entities.Item) domain.ItemResponse {
	return domain.ItemResponse{
		ID:        item.ID.String(),
		ReceiptID: item.ReceiptID.String(),
		Name:      item.Name,
		Brand:     item.Brand,
		Price:     item.Price,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		UnitPrice: item.UnitPrice(),
		CreatedAt: item.CreatedAt,
	}
}

func totalPages(total int64, pageSize int) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}
