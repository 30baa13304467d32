package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-stock/internal/tags"
)

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 1 << 20

// tagsAPIHandler provides REST handlers for tag endpoints.
type tagsAPIHandler struct {
	tags *tags.Manager
}

// registerTagRoutes registers tag routes on r.
func registerTagRoutes(r chi.Router, m *tags.Manager) {
	h := &tagsAPIHandler{tags: m}
	r.Get("/store/{storeId}/tag", h.List)
	r.Post("/store/{storeId}/tag", h.Create)
	r.Post("/item/{itemId}/tag/{tagId}", h.Link)
	r.Delete("/item/{itemId}/tag/{tagId}", h.Unlink)
	r.Get("/tag/{tagId}", h.Get)
	r.Delete("/tag/{tagId}", h.Delete)
}

// List returns every tag in a store.
// GET /store/{storeId}/tag
//
// @Summary      List store tags
// @Tags         Tags
// @Produce      json
// @Param        storeId  path      string  true  "Store ID"
// @Success      200      {array}   TagResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerToken
// @Router       /store/{storeId}/tag [get]
func (h *tagsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tags.ListTags(r.Context(), chi.URLParam(r, "storeId"))
	if err != nil {
		writeTagError(w, err, "failed to list tags")
		return
	}
	resp := make([]TagResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, newTagResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a tag to a store.
// POST /store/{storeId}/tag
//
// @Summary      Create a tag
// @Tags         Tags
// @Accept       json
// @Produce      json
// @Param        storeId  path      string            true  "Store ID"
// @Param        body     body      CreateTagRequest  true  "Tag to create"
// @Success      201      {object}  TagResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Security     BearerToken
// @Router       /store/{storeId}/tag [post]
func (h *tagsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	d, err := h.tags.CreateTag(r.Context(), chi.URLParam(r, "storeId"), req.Name)
	if err != nil {
		writeTagError(w, err, "failed to create tag")
		return
	}
	writeJSON(w, http.StatusCreated, newTagResponse(d))
}

// Link tags an item. Linking an already tagged item is a no-op.
// POST /item/{itemId}/tag/{tagId}
//
// @Summary      Tag an item
// @Tags         Tags
// @Produce      json
// @Param        itemId  path      string  true  "Item ID"
// @Param        tagId   path      string  true  "Tag ID"
// @Success      201     {object}  TagResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /item/{itemId}/tag/{tagId} [post]
func (h *tagsAPIHandler) Link(w http.ResponseWriter, r *http.Request) {
	d, err := h.tags.LinkTagToItem(r.Context(), chi.URLParam(r, "itemId"), chi.URLParam(r, "tagId"))
	if err != nil {
		writeTagError(w, err, "failed to tag item")
		return
	}
	writeJSON(w, http.StatusCreated, newTagResponse(d))
}

// Unlink removes a tag from an item.
// DELETE /item/{itemId}/tag/{tagId}
//
// @Summary      Untag an item
// @Tags         Tags
// @Produce      json
// @Param        itemId  path      string  true  "Item ID"
// @Param        tagId   path      string  true  "Tag ID"
// @Success      200     {object}  UnlinkResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /item/{itemId}/tag/{tagId} [delete]
func (h *tagsAPIHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	u, err := h.tags.UnlinkTagFromItem(r.Context(), chi.URLParam(r, "itemId"), chi.URLParam(r, "tagId"))
	if err != nil {
		writeTagError(w, err, "failed to untag item")
		return
	}
	writeJSON(w, http.StatusOK, UnlinkResponse{
		Message: u.Message,
		Item:    newItemResponse(u.Item),
		Tag:     newTagResponse(u.Tag),
	})
}

// Get returns a single tag.
// GET /tag/{tagId}
//
// @Summary      Get a tag
// @Tags         Tags
// @Produce      json
// @Param        tagId  path      string  true  "Tag ID"
// @Success      200    {object}  TagResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /tag/{tagId} [get]
func (h *tagsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.tags.GetTag(r.Context(), chi.URLParam(r, "tagId"))
	if err != nil {
		writeTagError(w, err, "failed to get tag")
		return
	}
	writeJSON(w, http.StatusOK, newTagResponse(d))
}

// Delete removes a tag that no item references.
// DELETE /tag/{tagId}
//
// @Summary      Delete a tag
// @Tags         Tags
// @Produce      json
// @Param        tagId  path      string  true  "Tag ID"
// @Success      202    {object}  MessageResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /tag/{tagId} [delete]
func (h *tagsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	msg, err := h.tags.DeleteTag(r.Context(), chi.URLParam(r, "tagId"))
	if err != nil {
		writeTagError(w, err, "failed to delete tag")
		return
	}
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: msg})
}
