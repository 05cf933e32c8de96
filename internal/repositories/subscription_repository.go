package repositories

import (
	"errors"

	"gorm.io/gorm"

	"sermonforge_backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	FindByUser(userID string) (*models.Subscription, error)
	FindByStripeCustomer(customerID string) (*models.Subscription, error)
	FindByStripeSubscription(subscriptionID string) (*models.Subscription, error)
	Update(sub *models.Subscription) error
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindByUser(userID string) (*models.Subscription, error) {
	return r.findOne("user_id = ?", userID)
}

func (r *SubscriptionRepositoryImpl) FindByStripeCustomer(customerID string) (*models.Subscription, error) {
	return r.findOne("stripe_customer_id = ?", customerID)
}

func (r *SubscriptionRepositoryImpl) FindByStripeSubscription(subscriptionID string) (*models.Subscription, error) {
	return r.findOne("stripe_subscription_id = ?", subscriptionID)
}

func (r *SubscriptionRepositoryImpl) findOne(query string, arg string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.First(&sub, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}
