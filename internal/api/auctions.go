package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finnvos/skysniper/internal/model"
)

// Auction is the wire form of one listing in the auctions feed.
type Auction struct {
	UUID        string  `json:"uuid"`
	ItemName    string  `json:"item_name"`
	ItemLore    string  `json:"item_lore"`
	ItemBytes   string  `json:"item_bytes"`
	StartingBid float64 `json:"starting_bid"`
	HighestBid  float64 `json:"highest_bid_amount"`
	Bin         bool    `json:"bin"`
	Start       int64   `json:"start"`
	End         int64   `json:"end"`
	Claimed     bool    `json:"claimed"`
}

// ToListing converts the wire auction into the internal listing model.
func (a Auction) ToListing() model.Listing {
	return model.Listing{
		UUID:      a.UUID,
		ItemName:  a.ItemName,
		ItemLore:  a.ItemLore,
		ItemBytes: a.ItemBytes,
		Price:     a.StartingBid,
		Bin:       a.Bin,
		Start:     a.Start,
		End:       a.End,
	}
}

// AuctionsPage is one page of the auction snapshot.
type AuctionsPage struct {
	Success     bool      `json:"success"`
	Cause       string    `json:"cause"`
	Page        int       `json:"page"`
	TotalPages  int       `json:"totalPages"`
	LastUpdated int64     `json:"lastUpdated"`
	Auctions    []Auction `json:"auctions"`
}

// GetAuctionsPage fetches one page of the auction snapshot.
func (c *Client) GetAuctionsPage(ctx context.Context, page int) (*AuctionsPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var resp AuctionsPage
	if err := c.get(ctx, "/skyblock/auctions", query, &resp); err != nil {
		return nil, fmt.Errorf("get auctions page %d: %w", page, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("auctions page %d rejected: %s", page, resp.Cause)
	}

	return &resp, nil
}

// keyResponse is the /key status envelope.
type keyResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

// ValidateKey checks that the configured API key is accepted.
func (c *Client) ValidateKey(ctx context.Context) error {
	var resp keyResponse
	if err := c.get(ctx, "/key", nil, &resp); err != nil {
		return fmt.Errorf("validate key: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("api key rejected: %s", resp.Cause)
	}
	return nil
}
