package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gavel/adapters/session"
	"gavel/stores"
)

// List auctions owned by the current user
// (GET /auctions)
func (impl *ServerImpl) GetAuctions(c *gin.Context) {
	const op = "GetAuctions"
	user := CurrentUser(c)
	auctions, err := impl.auctions.ListOwned(c.Request.Context(), user.ID)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	impl.render(c, op, http.StatusOK, "auctions.tmpl", gin.H{
		"Title":    "My auctions",
		"Auctions": auctions,
	})
}

// Show the auction creation form
// (GET /auctions/create)
func (impl *ServerImpl) GetCreateAuction(c *gin.Context) {
	impl.render(c, "GetCreateAuction", http.StatusOK, "create_auction.tmpl", gin.H{"Title": "New auction"})
}

// Create an auction owned by the current user
// (POST /auctions/create)
func (impl *ServerImpl) PostCreateAuction(c *gin.Context) {
	const op = "PostCreateAuction"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	user := CurrentUser(c)
	input, err := stores.ParseAuctionInput(c.PostForm("item"), c.PostForm("start_bid"), c.PostForm("end_date"))
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "create", "/auctions/create")
		return
	}
	auction, err := impl.auctions.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "create", "/auctions/create")
		return
	}
	impl.publish(newAuctionEvent(AuctionCreated, auction))
	impl.redirectWithFlash(c, op, sess, flashSuccess, "Auction created successfully.", "/auctions")
}

// Show the update form for an owned auction
// (GET /auctions/:auctionID/update)
func (impl *ServerImpl) GetUpdateAuction(c *gin.Context) {
	const op = "GetUpdateAuction"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	auctionID, err := parseAuctionID(c)
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "update", "/auctions")
		return
	}
	auction, err := impl.auctions.Get(c.Request.Context(), auctionID, CurrentUser(c).ID)
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "update", "/auctions")
		return
	}
	impl.render(c, op, http.StatusOK, "update_auction.tmpl", gin.H{
		"Title":   "Edit auction",
		"Auction": auction,
	})
}

// Update an owned auction
// (POST /auctions/:auctionID/update)
func (impl *ServerImpl) PostUpdateAuction(c *gin.Context) {
	const op = "PostUpdateAuction"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	auctionID, err := parseAuctionID(c)
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "update", "/auctions")
		return
	}
	requesterID := CurrentUser(c).ID
	// 先確認擁有者再檢查輸入，非擁有者不會得到輸入格式的提示
	if _, err := impl.auctions.Get(c.Request.Context(), auctionID, requesterID); err != nil {
		impl.reportAuctionError(c, op, sess, err, "update", "/auctions")
		return
	}
	formURL := fmt.Sprintf("/auctions/%s/update", auctionID)
	input, err := stores.ParseAuctionInput(c.PostForm("item"), c.PostForm("start_bid"), c.PostForm("end_date"))
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "update", formURL)
		return
	}
	auction, err := impl.auctions.Update(c.Request.Context(), auctionID, requesterID, input)
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "update", formURL)
		return
	}
	impl.publish(newAuctionEvent(AuctionUpdated, auction))
	impl.redirectWithFlash(c, op, sess, flashSuccess, "Auction updated successfully.", "/auctions")
}

// Delete an owned auction
// (POST /auctions/:auctionID/delete)
func (impl *ServerImpl) PostDeleteAuction(c *gin.Context) {
	const op = "PostDeleteAuction"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	auctionID, err := parseAuctionID(c)
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "delete", "/auctions")
		return
	}
	requesterID := CurrentUser(c).ID
	// 先取得紀錄供異動通知使用，擁有者檢查在 Delete 中再做一次
	auction, err := impl.auctions.Get(c.Request.Context(), auctionID, requesterID)
	if err == nil {
		err = impl.auctions.Delete(c.Request.Context(), auctionID, requesterID)
	}
	if err != nil {
		impl.reportAuctionError(c, op, sess, err, "delete", "/auctions")
		return
	}
	impl.publish(newAuctionEvent(AuctionDeleted, auction))
	impl.redirectWithFlash(c, op, sess, flashSuccess, "Auction deleted successfully.", "/auctions")
}

func parseAuctionID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("auction id %q: %w", c.Param("auctionID"), stores.ErrNotFound)
	}
	return id, nil
}

// reportAuctionError 將 store 回報的錯誤轉為提示訊息後導向安全的頁面
// 輸入錯誤回到表單，其餘可預期的錯誤回到列表
func (impl *ServerImpl) reportAuctionError(c *gin.Context, op string, sess session.ISession, err error, action, formURL string) {
	switch {
	case errors.Is(err, stores.ErrValidation):
		message := fmt.Sprintf("Invalid auction: item is required, start bid must be a non-negative number and end date must use the format %s.", stores.EndDateLayout)
		impl.redirectWithFlash(c, op, sess, flashError, message, formURL)
	case errors.Is(err, stores.ErrForbidden):
		impl.logger.Warn("Ownership check failed", slog.String("op", op), slog.String("userID", CurrentUser(c).ID.String()), slog.Any("error", err))
		impl.redirectWithFlash(c, op, sess, flashError, fmt.Sprintf("You are not authorized to %s this auction.", action), "/auctions")
	case errors.Is(err, stores.ErrNotFound):
		impl.redirectWithFlash(c, op, sess, flashError, "Auction not found.", "/auctions")
	default:
		impl.fail(c, op, err)
	}
}
