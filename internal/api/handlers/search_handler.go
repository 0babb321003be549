package handlers

import (
	"github.com/gofiber/fiber/v2"

	"grocery-price-tracker/domain"
	"grocery-price-tracker/internal/api/presenters"
	"grocery-price-tracker/pkg/search"
)

type (
	SearchHandler interface {
		SearchItems(c *fiber.Ctx) error
		GetPriceHistory(c *fiber.Ctx) error
		GetSupermarketSuggestions(c *fiber.Ctx) error
	}

	searchHandler struct {
		searchService search.SearchService
	}
)

func NewSearchHandler(searchService search.SearchService) SearchHandler {
	return &searchHandler{searchService: searchService}
}

func (h *searchHandler) SearchItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := domain.SearchRequest{Page: 1, PageSize: 20}
	if err := c.QueryParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.searchService.SearchItems(c.Context(), userID, req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSearch, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearch)
}

func (h *searchHandler) GetPriceHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemName := c.Params("item_name")

	res, err := h.searchService.GetPriceHistory(c.Context(), userID, itemName, c.Query("supermarket"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedPriceHistory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessPriceHistory)
}

func (h *searchHandler) GetSupermarketSuggestions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.searchService.GetSupermarketSuggestions(c.Context(), userID, c.Query("q"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetSupermarkets, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSupermarkets)
}
