package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inride/internal/domain"
	"inride/internal/events"
	"inride/internal/observability"
	redisstore "inride/internal/redis"
	"inride/internal/repository"
)

// bookingLockTTL bounds how long a crashed request can hold a booking lock.
const bookingLockTTL = 10 * time.Second

// BookingService manages the booking lifecycle and the offer marketplace.
//
// Reads go straight to the repositories. Every mutation first acquires the
// booking's Redis lock, then re-checks status inside a database transaction,
// so concurrent commands against the same booking resolve to exactly one
// winner.
type BookingService struct {
	tx        repository.Transactor
	bookings  repository.BookingRepository
	customers repository.CustomerRepository
	drivers   repository.DriverRepository
	locks     redisstore.LockStoreInterface
	notifier  Notifier
	producer  *events.Producer
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	tx repository.Transactor,
	bookings repository.BookingRepository,
	customers repository.CustomerRepository,
	drivers repository.DriverRepository,
	locks redisstore.LockStoreInterface,
	notifier Notifier,
	producer *events.Producer,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *BookingService {
	return &BookingService{
		tx:        tx,
		bookings:  bookings,
		customers: customers,
		drivers:   drivers,
		locks:     locks,
		notifier:  notifier,
		producer:  producer,
		logger:    logger,
		metrics:   metrics,
	}
}

// withBookingLock serializes mutations of a single booking. A held lock
// means another command on the same booking is mid-flight, which resolves
// the same way as losing the status re-check.
func (s *BookingService) withBookingLock(ctx context.Context, bookingID string, fn func() error) error {
	ok, err := s.locks.AcquireBookingLock(ctx, bookingID, bookingLockTTL)
	if err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}
	defer func() {
		if err := s.locks.ReleaseBookingLock(ctx, bookingID); err != nil {
			s.logger.Warn("release booking lock", zap.String("booking_id", bookingID), zap.Error(err))
		}
	}()

	return fn()
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	s.producer.Publish(ctx, events.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		DriverID:   b.DriverID,
		Fare:       b.Fare,
		Status:     string(b.Status),
		At:         time.Now().UTC(),
	})
}

// CreateBooking opens a new booking in SEARCHING with an estimated fare.
// The final fare is set when the customer accepts a driver's offer.
func (s *BookingService) CreateBooking(
	ctx context.Context,
	customerID string,
	pickup string, pickupCoords domain.Location,
	destination string, destCoords domain.Location,
	method domain.PaymentMethod,
) (*domain.Booking, error) {
	if customerID == "" {
		return nil, ErrInvalidID
	}
	if strings.TrimSpace(pickup) == "" || strings.TrimSpace(destination) == "" {
		return nil, ErrInvalidName
	}
	if strings.EqualFold(strings.TrimSpace(pickup), strings.TrimSpace(destination)) {
		return nil, ErrSamePickupAndDest
	}
	if !validCoords(pickupCoords) || !validCoords(destCoords) {
		return nil, ErrInvalidCoordinates
	}
	if !validPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	active, err := s.bookings.GetActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveBookingExists
	}

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		Pickup:        strings.TrimSpace(pickup),
		PickupCoords:  pickupCoords,
		Destination:   strings.TrimSpace(destination),
		DestCoords:    destCoords,
		Fare:          EstimateFare(pickupCoords, destCoords),
		Status:        domain.BookingStatusSearching,
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.metrics.BookingsCreated.Inc()
	s.publish(ctx, events.TypeBookingCreated, booking)
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("customer_id", customerID),
		zap.Float64("estimated_fare", booking.Fare),
	)

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return s.bookings.GetByID(ctx, id)
}

// ListCustomerBookings retrieves the customer's bookings, newest first.
func (s *BookingService) ListCustomerBookings(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	if customerID == "" {
		return nil, ErrInvalidID
	}
	return s.bookings.GetByCustomerID(ctx, customerID)
}

// ListAllBookings retrieves every booking, newest first.
func (s *BookingService) ListAllBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookings.GetAll(ctx)
}

// ListOpenBookings retrieves the bookings the driver can still bid on:
// SEARCHING bookings without an offer from this driver.
func (s *BookingService) ListOpenBookings(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	if driverID == "" {
		return nil, ErrInvalidID
	}

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Status != domain.DriverStatusApproved {
		return nil, ErrDriverNotApproved
	}

	searching, err := s.bookings.GetSearching(ctx)
	if err != nil {
		return nil, err
	}

	open := make([]*domain.Booking, 0, len(searching))
	for _, b := range searching {
		if b.OfferFrom(driverID) == nil {
			open = append(open, b)
		}
	}

	return open, nil
}

// SubmitOffer records a driver's bid on a SEARCHING booking. One offer per
// driver per booking; offers keep submission order.
func (s *BookingService) SubmitOffer(ctx context.Context, bookingID, driverID string, fare float64, arrivalMins int) (*domain.Booking, error) {
	if bookingID == "" || driverID == "" {
		return nil, ErrInvalidID
	}
	if fare <= 0 {
		return nil, ErrInvalidFare
	}
	if arrivalMins <= 0 {
		return nil, ErrInvalidArrival
	}

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Status != domain.DriverStatusApproved {
		return nil, ErrDriverNotApproved
	}
	if driver.Balance < MinDriverBalance {
		return nil, ErrDriverBalanceLow
	}

	var booking *domain.Booking
	err = s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.Status != domain.BookingStatusSearching {
				return ErrInvalidTransition
			}
			if b.OfferFrom(driverID) != nil {
				return ErrDuplicateOffer
			}

			b.Offers = append(b.Offers, domain.Offer{
				DriverID:             driverID,
				Fare:                 fare,
				EstimatedArrivalMins: arrivalMins,
			})

			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OffersSubmitted.Inc()
	s.publish(ctx, events.TypeOfferSubmitted, booking)
	s.notifier.Notify(ctx, Notification{
		RecipientID: booking.CustomerID,
		Role:        domain.RoleCustomer,
		Type:        NotificationOfferReceived,
		Message:     fmt.Sprintf("New offer of %.2f from a driver, arriving in %d minutes.", fare, arrivalMins),
	})

	return booking, nil
}

// AcceptOffer assigns the booking to the offering driver at the offered
// fare. For WALLET bookings the fare is escrowed from the customer's wallet
// in the same transaction; both the assignment and the debit land or
// neither does.
func (s *BookingService) AcceptOffer(ctx context.Context, bookingID, customerID, driverID string, fare float64) (*domain.Booking, error) {
	if bookingID == "" || customerID == "" || driverID == "" {
		return nil, ErrInvalidID
	}

	var booking *domain.Booking
	err := s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.CustomerID != customerID {
				return ErrNotBookingOwner
			}
			if b.Status != domain.BookingStatusSearching {
				return ErrInvalidTransition
			}

			offer := b.OfferFrom(driverID)
			if offer == nil {
				return ErrOfferNotFound
			}
			if offer.Fare != fare {
				return ErrOfferFareMismatch
			}

			// Several SEARCHING bookings may coexist, but accepting
			// holds the one-active-ride rule for both sides.
			customerActive, err := repos.Bookings.GetActiveByCustomerID(ctx, customerID)
			if err != nil {
				return err
			}
			if customerActive != nil {
				return ErrActiveBookingExists
			}

			driverActive, err := repos.Bookings.GetActiveByDriverID(ctx, driverID)
			if err != nil {
				return err
			}
			if driverActive != nil {
				return ErrDriverHasActiveBooking
			}

			if b.PaymentMethod == domain.PaymentMethodWallet {
				if err := repos.Customers.AdjustBalance(ctx, customerID, -offer.Fare); err != nil {
					if errors.Is(err, repository.ErrInsufficientFunds) {
						return ErrInsufficientFunds
					}
					return err
				}
			}

			b.DriverID = driverID
			b.Fare = offer.Fare
			b.Status = domain.BookingStatusAssigned

			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OffersAccepted.Inc()
	s.publish(ctx, events.TypeOfferAccepted, booking)
	s.notifier.Notify(ctx, Notification{
		RecipientID: driverID,
		Role:        domain.RoleDriver,
		Type:        NotificationOfferAccepted,
		Message:     fmt.Sprintf("Your offer of %.2f was accepted. Head to %s.", booking.Fare, booking.Pickup),
	})

	return booking, nil
}

// MarkReachedPickup records that the assigned driver arrived at the pickup
// point. Idempotent while the booking stays ASSIGNED.
func (s *BookingService) MarkReachedPickup(ctx context.Context, bookingID, driverID string) (*domain.Booking, error) {
	if bookingID == "" || driverID == "" {
		return nil, ErrInvalidID
	}

	var booking *domain.Booking
	var already bool
	err := s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.Status != domain.BookingStatusAssigned {
				return ErrInvalidTransition
			}
			if b.DriverID != driverID {
				return ErrNotAssignedDriver
			}
			if b.DriverReachedPickup {
				booking, already = b, true
				return nil
			}

			b.DriverReachedPickup = true
			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if !already {
		s.notifier.Notify(ctx, Notification{
			RecipientID: booking.CustomerID,
			Role:        domain.RoleCustomer,
			Type:        NotificationDriverReached,
			Message:     "Your driver has arrived at the pickup point.",
		})
	}

	return booking, nil
}

// StartTrip moves an ASSIGNED booking to IN_PROGRESS.
func (s *BookingService) StartTrip(ctx context.Context, bookingID, driverID string) (*domain.Booking, error) {
	if bookingID == "" || driverID == "" {
		return nil, ErrInvalidID
	}

	var booking *domain.Booking
	err := s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.Status != domain.BookingStatusAssigned {
				return ErrInvalidTransition
			}
			if b.DriverID != driverID {
				return ErrNotAssignedDriver
			}

			b.Status = domain.BookingStatusInProgress
			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeTripStarted, booking)
	s.notifier.Notify(ctx, Notification{
		RecipientID: booking.CustomerID,
		Role:        domain.RoleCustomer,
		Type:        NotificationTripStarted,
		Message:     "Your trip has started.",
	})

	return booking, nil
}

// CompleteTrip moves an IN_PROGRESS booking to COMPLETED and settles the
// money in the same transaction. For WALLET the escrowed fare pays the
// driver net of commission; for every other method the driver owes the
// commission from their wallet. The platform account collects the
// commission either way.
func (s *BookingService) CompleteTrip(ctx context.Context, bookingID, driverID string) (*domain.Booking, error) {
	if bookingID == "" || driverID == "" {
		return nil, ErrInvalidID
	}

	var booking *domain.Booking
	var settlement Settlement
	err := s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.Status != domain.BookingStatusInProgress {
				return ErrInvalidTransition
			}
			if b.DriverID != driverID {
				return ErrNotAssignedDriver
			}

			settlement = Settle(b.Fare, b.PaymentMethod)

			// The commission debit may overdraw the driver's wallet;
			// the negative balance is the debt, and the bidding floor
			// keeps the driver off new bookings until it is repaid.
			if err := repos.Drivers.AdjustBalance(ctx, driverID, settlement.DriverDelta); err != nil {
				return err
			}
			if err := repos.Platform.Credit(ctx, settlement.PlatformDelta); err != nil {
				return err
			}

			b.Status = domain.BookingStatusCompleted
			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BookingsCompleted.Inc()
	s.metrics.CommissionTotal.Add(settlement.Commission)
	s.publish(ctx, events.TypeBookingCompleted, booking)
	s.notifier.Notify(ctx, Notification{
		RecipientID: booking.CustomerID,
		Role:        domain.RoleCustomer,
		Type:        NotificationTripCompleted,
		Message:     fmt.Sprintf("Trip completed. Fare: %.2f.", booking.Fare),
	})
	s.logger.Info("booking settled",
		zap.String("booking_id", booking.ID),
		zap.String("driver_id", driverID),
		zap.Float64("fare", booking.Fare),
		zap.Float64("commission", settlement.Commission),
	)

	return booking, nil
}

// CancelBooking cancels a SEARCHING or ASSIGNED booking. A WALLET booking
// cancelled after assignment refunds the escrowed fare to the customer in
// the same transaction.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, customerID, reason string) (*domain.Booking, error) {
	if bookingID == "" || customerID == "" {
		return nil, ErrInvalidID
	}

	var booking *domain.Booking
	err := s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.CustomerID != customerID {
				return ErrNotBookingOwner
			}
			if b.Status == domain.BookingStatusCancelled {
				return ErrBookingAlreadyCancelled
			}
			if b.Status != domain.BookingStatusSearching && b.Status != domain.BookingStatusAssigned {
				return ErrInvalidTransition
			}

			if b.Status == domain.BookingStatusAssigned && b.PaymentMethod == domain.PaymentMethodWallet {
				if err := repos.Customers.AdjustBalance(ctx, customerID, b.Fare); err != nil {
					return err
				}
			}

			b.Status = domain.BookingStatusCancelled
			b.CancelledAt = time.Now().UTC()
			b.CancelReason = strings.TrimSpace(reason)

			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BookingsCancelled.Inc()
	s.publish(ctx, events.TypeBookingCancelled, booking)
	if booking.DriverID != "" {
		s.notifier.Notify(ctx, Notification{
			RecipientID: booking.DriverID,
			Role:        domain.RoleDriver,
			Type:        NotificationBookingCancel,
			Message:     "The customer cancelled the booking.",
		})
	}

	return booking, nil
}

// RateBooking records the customer's rating for a completed booking and
// folds it into the driver's aggregate.
func (s *BookingService) RateBooking(ctx context.Context, bookingID, customerID string, rating int) (*domain.Booking, error) {
	if bookingID == "" || customerID == "" {
		return nil, ErrInvalidID
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var booking *domain.Booking
	err := s.withBookingLock(ctx, bookingID, func() error {
		return s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
			b, err := repos.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.CustomerID != customerID {
				return ErrNotBookingOwner
			}
			if b.Status != domain.BookingStatusCompleted {
				return ErrInvalidTransition
			}
			if b.Rating != 0 {
				return ErrAlreadyRated
			}

			b.Rating = rating
			if err := repos.Bookings.Update(ctx, b); err != nil {
				return err
			}

			driver, err := repos.Drivers.GetByID(ctx, b.DriverID)
			if err != nil {
				return err
			}
			total := driver.TotalRatings + 1
			average := (driver.Rating*float64(driver.TotalRatings) + float64(rating)) / float64(total)
			if err := repos.Drivers.UpdateRating(ctx, b.DriverID, round2(average), total); err != nil {
				return err
			}

			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func validCoords(loc domain.Location) bool {
	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lng >= -180 && loc.Lng <= 180
}

func validPaymentMethod(method domain.PaymentMethod) bool {
	switch method {
	case domain.PaymentMethodWallet, domain.PaymentMethodUPI, domain.PaymentMethodCard, domain.PaymentMethodCash:
		return true
	}
	return false
}
