package service

import (
	"context"
	"errors"
	"fmt"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// SubscriptionService handles channel subscriptions.
type SubscriptionService struct {
	repo     repository.SubscriptionRepository
	userRepo repository.UserRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository, userRepo repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Toggle subscribes the user to the channel if not subscribed, and
// unsubscribes if they are. Users cannot subscribe to themselves.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID int64) (*model.ToggleSubscriptionResult, error) {
	if subscriberID == channelID {
		return nil, model.ErrSelfSubscription
	}

	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrChannelNotFound
		}
		return nil, err
	}

	existing, err := s.repo.Find(ctx, subscriberID, channelID)
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}

	if existing != nil {
		err := s.repo.DeleteByID(ctx, existing.ID)
		if err != nil && !errors.Is(err, model.ErrSubscriptionNotFound) {
			return nil, fmt.Errorf("delete subscription: %w", err)
		}
		return &model.ToggleSubscriptionResult{Subscribed: false}, nil
	}

	sub := &model.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	err = s.repo.Create(ctx, sub)
	if errors.Is(err, model.ErrAlreadySubscribed) {
		// Lost a race with a concurrent toggle; report the winning state.
		sub, err = s.repo.Find(ctx, subscriberID, channelID)
		if err != nil {
			return nil, fmt.Errorf("find subscription after race: %w", err)
		}
		return &model.ToggleSubscriptionResult{Subscribed: true, Subscription: sub}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	return &model.ToggleSubscriptionResult{Subscribed: true, Subscription: sub}, nil
}

// Subscribers lists everyone subscribed to the channel.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrChannelNotFound
		}
		return nil, err
	}
	return s.repo.ListSubscribers(ctx, channelID)
}

// SubscribedChannels lists the channels the user subscribes to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error) {
	if _, err := s.userRepo.GetByID(ctx, subscriberID); err != nil {
		return nil, err
	}
	return s.repo.ListSubscribedChannels(ctx, subscriberID)
}
