package stores

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"gavel/models"
)

const (
	// EndDateLayout 是表單中結束時間的格式
	EndDateLayout = "2006-01-02 15:04:05"

	maxItemLength = 100
)

// AuctionInput 是建立或更新拍賣時可修改的欄位
type AuctionInput struct {
	Item     string
	StartBid float64
	EndDate  time.Time
}

// ParseAuctionInput 解析表單欄位
// 起標價必須是非負數，結束時間必須符合 EndDateLayout
func ParseAuctionInput(item, startBid, endDate string) (AuctionInput, error) {
	const op = "ParseAuctionInput"
	bid, err := strconv.ParseFloat(strings.TrimSpace(startBid), 64)
	if err != nil {
		return AuctionInput{}, fmt.Errorf("[%s] start bid %q is not a number: %w", op, startBid, ErrValidation)
	}
	end, err := time.Parse(EndDateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return AuctionInput{}, fmt.Errorf("[%s] end date %q does not match %s: %w", op, endDate, EndDateLayout, ErrValidation)
	}
	input := AuctionInput{
		Item:     strings.TrimSpace(item),
		StartBid: bid,
		EndDate:  end,
	}
	if err := input.Validate(); err != nil {
		return AuctionInput{}, err
	}
	return input, nil
}

// Validate 檢查欄位是否合法
func (in AuctionInput) Validate() error {
	const op = "AuctionInput.Validate"
	switch {
	case in.Item == "":
		return fmt.Errorf("[%s] item is required: %w", op, ErrValidation)
	case utf8.RuneCountInString(in.Item) > maxItemLength:
		return fmt.Errorf("[%s] item longer than %d characters: %w", op, maxItemLength, ErrValidation)
	case math.IsNaN(in.StartBid) || math.IsInf(in.StartBid, 0) || in.StartBid < 0:
		return fmt.Errorf("[%s] start bid must be a non-negative number: %w", op, ErrValidation)
	case in.EndDate.IsZero():
		return fmt.Errorf("[%s] end date is required: %w", op, ErrValidation)
	}
	return nil
}

// AuctionStore 負責拍賣紀錄的讀寫，所有修改都會檢查擁有者
type AuctionStore struct {
	db          *gorm.DB
	htmlChecker *bluemonday.Policy
}

func NewAuctionStore(db *gorm.DB) *AuctionStore {
	return &AuctionStore{
		db:          db,
		htmlChecker: bluemonday.StrictPolicy(),
	}
}

// ListOwned 列出使用者擁有的所有拍賣，依建立順序排列
func (s *AuctionStore) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.Auction, error) {
	const op = "AuctionStore.ListOwned"
	auctions := []models.Auction{}
	if result := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Order("id").
		Find(&auctions); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to list auctions, err=%w", op, result.Error)
	}
	return auctions, nil
}

// Create 建立新的拍賣，最高出價固定從 0 開始
func (s *AuctionStore) Create(ctx context.Context, ownerID uuid.UUID, input AuctionInput) (*models.Auction, error) {
	const op = "AuctionStore.Create"
	input = s.sanitize(input)
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("[%s] %w", op, err)
	}
	auction := models.Auction{
		Item:       input.Item,
		StartBid:   input.StartBid,
		EndDate:    input.EndDate,
		HighestBid: 0,
		OwnerID:    ownerID,
	}
	if result := s.db.WithContext(ctx).Create(&auction); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("[%s] owner=%s: %w", op, ownerID, ErrNotFound)
		}
		return nil, fmt.Errorf("[%s] Fail to create auction, err=%w", op, result.Error)
	}
	return &auction, nil
}

// Get 取得請求者擁有的拍賣
func (s *AuctionStore) Get(ctx context.Context, auctionID, requesterID uuid.UUID) (*models.Auction, error) {
	const op = "AuctionStore.Get"
	var auction models.Auction
	if result := s.db.WithContext(ctx).Where("id = ?", auctionID).First(&auction); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("[%s] auction=%s: %w", op, auctionID, ErrNotFound)
		}
		return nil, fmt.Errorf("[%s] Fail to find auction, err=%w", op, result.Error)
	}
	if auction.OwnerID != requesterID {
		return nil, fmt.Errorf("[%s] auction=%s requester=%s: %w", op, auctionID, requesterID, ErrForbidden)
	}
	return &auction, nil
}

// Update 覆寫商品描述、起標價與結束時間
// NOTE: 最高出價不會被修改
func (s *AuctionStore) Update(ctx context.Context, auctionID, requesterID uuid.UUID, input AuctionInput) (*models.Auction, error) {
	const op = "AuctionStore.Update"
	// 先確認紀錄存在且屬於請求者，再檢查輸入
	auction, err := s.Get(ctx, auctionID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", op, err)
	}
	input = s.sanitize(input)
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("[%s] %w", op, err)
	}
	// WHERE 條件帶上擁有者，確保檢查和寫入針對同一筆紀錄
	result := s.db.WithContext(ctx).
		Model(auction).
		Where("owner_id = ?", requesterID).
		Updates(map[string]any{
			"item":      input.Item,
			"start_bid": input.StartBid,
			"end_date":  input.EndDate,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to update auction, err=%w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("[%s] auction=%s: %w", op, auctionID, ErrNotFound)
	}
	auction.Item = input.Item
	auction.StartBid = input.StartBid
	auction.EndDate = input.EndDate
	return auction, nil
}

// Delete 刪除請求者擁有的拍賣
func (s *AuctionStore) Delete(ctx context.Context, auctionID, requesterID uuid.UUID) error {
	const op = "AuctionStore.Delete"
	if _, err := s.Get(ctx, auctionID, requesterID); err != nil {
		return fmt.Errorf("[%s] %w", op, err)
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", auctionID, requesterID).
		Delete(&models.Auction{})
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to delete auction, err=%w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("[%s] auction=%s: %w", op, auctionID, ErrNotFound)
	}
	return nil
}

// sanitize 移除商品描述中的 HTML 標籤，只保留純文字
func (s *AuctionStore) sanitize(input AuctionInput) AuctionInput {
	input.Item = strings.TrimSpace(html.UnescapeString(s.htmlChecker.Sanitize(input.Item)))
	return input
}
