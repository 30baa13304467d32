package api

import (
	"github.com/joestump/joe-stock/internal/store"
	"github.com/joestump/joe-stock/internal/tags"
)

// CreateTagRequest is the request body for POST /store/{storeId}/tag.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// StoreRef is the store summary embedded in a tag.
type StoreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemRef is the item summary embedded in a tag.
type ItemRef struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	StoreID string  `json:"store_id"`
}

// TagRef is the tag summary embedded in an item.
type TagRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	StoreID string `json:"store_id"`
}

// TagResponse is the JSON representation of a tag.
type TagResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	StoreID string    `json:"store_id"`
	Store   StoreRef  `json:"store"`
	Items   []ItemRef `json:"items"`
}

// ItemResponse is the JSON representation of an item with its tags.
type ItemResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Price   float64  `json:"price"`
	StoreID string   `json:"store_id"`
	Tags    []TagRef `json:"tags"`
}

// UnlinkResponse is returned by DELETE /item/{itemId}/tag/{tagId}.
type UnlinkResponse struct {
	Message string       `json:"message"`
	Item    ItemResponse `json:"item"`
	Tag     TagResponse  `json:"tag"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func newTagResponse(d *tags.TagDetail) TagResponse {
	resp := TagResponse{
		ID:      d.Tag.ID,
		Name:    d.Tag.Name,
		StoreID: d.Tag.StoreID,
		Items:   make([]ItemRef, 0, len(d.Items)),
	}
	if d.Store != nil {
		resp.Store = StoreRef{ID: d.Store.ID, Name: d.Store.Name}
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, newItemRef(it))
	}
	return resp
}

func newItemRef(it *store.Item) ItemRef {
	return ItemRef{ID: it.ID, Name: it.Name, Price: it.Price, StoreID: it.StoreID}
}

func newItemResponse(d *tags.ItemDetail) ItemResponse {
	resp := ItemResponse{
		ID:      d.Item.ID,
		Name:    d.Item.Name,
		Price:   d.Item.Price,
		StoreID: d.Item.StoreID,
		Tags:    make([]TagRef, 0, len(d.Tags)),
	}
	for _, t := range d.Tags {
		resp.Tags = append(resp.Tags, TagRef{ID: t.ID, Name: t.Name, StoreID: t.StoreID})
	}
	return resp
}
