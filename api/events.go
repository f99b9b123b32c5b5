package api

import (
	"log/slog"
	"time"

	"gavel/models"
)

type AuctionEventKind string

const (
	AuctionCreated AuctionEventKind = "created"
	AuctionUpdated AuctionEventKind = "updated"
	AuctionDeleted AuctionEventKind = "deleted"
)

// AuctionEvent 是拍賣紀錄異動後送往 Redis stream 的通知
type AuctionEvent struct {
	Kind      AuctionEventKind
	AuctionID string
	OwnerID   string
	Item      string
	At        time.Time
}

func newAuctionEvent(kind AuctionEventKind, auction *models.Auction) AuctionEvent {
	return AuctionEvent{
		Kind:      kind,
		AuctionID: auction.ID.String(),
		OwnerID:   auction.OwnerID.String(),
		Item:      auction.Item,
		At:        time.Now().UTC(),
	}
}

// publish 發送通知，失敗只記錄不影響請求結果
func (impl *ServerImpl) publish(event AuctionEvent) {
	if err := impl.events.Publish(event); err != nil {
		impl.logger.Warn("Fail to publish auction event",
			slog.String("kind", string(event.Kind)),
			slog.String("auctionID", event.AuctionID),
			slog.Any("error", err),
		)
	}
}

// noopProducer 在未設定 stream 時使用
type noopProducer struct{}

func (noopProducer) Start()                     {}
func (noopProducer) Publish(AuctionEvent) error { return nil }
func (noopProducer) Close()                     {}
