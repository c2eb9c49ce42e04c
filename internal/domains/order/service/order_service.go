package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/order/model"
	"bookheaven-backend/internal/domains/order/repository"
	"bookheaven-backend/internal/querybuilder"
)

type orderService struct {
	repo repository.OrderRepository
	cfg  config.SearchConfig
}

func NewOrderService(repo repository.OrderRepository, cfg config.SearchConfig) ServiceInterface {
	return &orderService{repo: repo, cfg: cfg}
}

func (s *orderService) ListUserOrders(ctx context.Context, userID string, req model.SearchOrdersRequest) (*querybuilder.Result[model.Order], error) {
	if userID == "" {
		return nil, model.NewOrderNotFoundError()
	}
	return s.search(ctx, userID, req)
}

func (s *orderService) ListAllOrders(ctx context.Context, req model.SearchOrdersRequest) (*querybuilder.Result[model.Order], error) {
	return s.search(ctx, "", req)
}

func (s *orderService) search(ctx context.Context, userID string, req model.SearchOrdersRequest) (*querybuilder.Result[model.Order], error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(err)
	}

	params := req.Params.Clamp(s.cfg.DefaultLimit, s.cfg.MaxLimit)
	filter := model.Filter{
		UserID: userID,
		Status: model.OrderStatus(req.Status),
		Search: req.Search,
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	rows, total, err := querybuilder.Paginate(ctx,
		func(ctx context.Context) ([]model.JoinedRow, error) { return s.repo.Search(ctx, filter) },
		func(ctx context.Context) (int, error) { return s.repo.Count(ctx, filter) },
	)
	if err != nil {
		return nil, err
	}

	criteria := querybuilder.Criteria{Limit: filter.Limit, Offset: filter.Offset}
	result := querybuilder.NewResult(model.Fold(rows), criteria, total)
	return &result, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID string, req model.CancelOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(err)
	}

	order, err := s.repo.CancelOrder(ctx, userID, orderID, req.Reason)
	if err != nil {
		var orderErr *model.OrderError
		switch {
		case errors.As(err, &orderErr):
			return nil, orderErr
		case errors.Is(err, model.ErrOrderNotFound):
			return nil, model.NewOrderNotFoundError()
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("order_id", orderID).
		Str("reason", req.Reason).
		Msg("order cancelled")

	return order, nil
}
