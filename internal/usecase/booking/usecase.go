// Package booking is the BookingStateMachine: the only path through
// which booking rows are written. Every operation runs inside a single
// database transaction, takes the advisory locks the concurrency model
// requires, and publishes at most one domain event after commit.
package booking

type StateMachine struct {
	repo         Repository
	policyRepo   PolicyProvider
	pricing      PricingEngine
	gate         PolicyGate
	payments     PaymentsClient
	txManager    TransactionManager
	bus          EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

func NewStateMachine(
	repo Repository,
	policyRepo PolicyProvider,
	pricingEngine PricingEngine,
	gate PolicyGate,
	payments PaymentsClient,
	txManager TransactionManager,
	bus EventPublisher,
	logger Logger,
) *StateMachine {
	return &StateMachine{
		repo:         repo,
		policyRepo:   policyRepo,
		pricing:      pricingEngine,
		gate:         gate,
		payments:     payments,
		txManager:    txManager,
		bus:          bus,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}
