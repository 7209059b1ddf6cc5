package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Domenick1991/flightbooking/internal/clock"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

const (
	DefaultCancellationWindowHours = 24
	DefaultSeatLockTTL             = 30 * time.Second
	DefaultPNRPrefix               = "PNR"

	// maxPNRAttempts bounds how many times a commit is retried after the
	// generated PNR collided with an existing one.
	maxPNRAttempts = 3
)

type BookingUseCase interface {
	BookTicket(ctx context.Context, flightID string, req BookingRequest) (string, error)
	GetTicket(ctx context.Context, pnr string) (*Ticket, error)
	CancelBooking(ctx context.Context, pnr string) error
	HistoryByUser(ctx context.Context, userID string) ([]Ticket, error)
	HistoryByEmail(ctx context.Context, email string) ([]Ticket, error)
}

// Cache holds short-lived seat locks and the route search cache.
type Cache interface {
	AcquireSeatLock(ctx context.Context, flightID, seat string, ttl time.Duration) (string, error)
	ReleaseSeatLock(ctx context.Context, flightID, seat, token string) error
	InvalidateRoute(ctx context.Context, from, to domain.AirportCode) error
}

type Producer interface {
	PublishBookingEvent(ctx context.Context, event kafka.BookingEvent) error
}

type SeatChecker interface {
	FirstConflict(ctx context.Context, flightID string, seats []string) (string, error)
}

type PassengerInput struct {
	Name       string
	Gender     domain.Gender
	Age        int
	SeatNumber string
}

type BookingRequest struct {
	UserID      string
	SeatsBooked int
	MealType    domain.MealType
	Passengers  []PassengerInput
}

// Ticket is a booking together with its passengers.
type Ticket struct {
	Booking    domain.Booking
	Passengers []domain.Passenger
}

type BookingService struct {
	users      repository.UserRepository
	flights    repository.FlightRepository
	bookings   repository.BookingRepository
	passengers repository.PassengerRepository
	tx         repository.Transactor
	checker    SeatChecker

	cache    Cache
	producer Producer

	clock              clock.Clock
	cancellationWindow int
	seatLockTTL        time.Duration
	newPNR             PNRGenerator
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
	}
}

func WithClock(c clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = c
	}
}

// WithCancellationWindow sets the minimum whole hours before departure at
// which a booking may still be cancelled.
func WithCancellationWindow(hours int) BookingServiceOption {
	return func(s *BookingService) {
		s.cancellationWindow = hours
	}
}

func WithSeatLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.seatLockTTL = ttl
	}
}

func WithPNRGenerator(gen PNRGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.newPNR = gen
	}
}

func NewBookingService(repos *repository.Repositories, checker SeatChecker, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		users:              repos.Users,
		flights:            repos.Flights,
		bookings:           repos.Bookings,
		passengers:         repos.Passengers,
		tx:                 repos.Tx,
		checker:            checker,
		clock:              clock.Real{},
		cancellationWindow: DefaultCancellationWindowHours,
		seatLockTTL:        DefaultSeatLockTTL,
		newPNR:             NewPNRGenerator(DefaultPNRPrefix),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookTicket validates the request against the user, the flight and the
// seats already taken, then writes the booking, its passengers and the seat
// counter in one transaction. It returns the PNR.
func (s *BookingService) BookTicket(ctx context.Context, flightID string, req BookingRequest) (pnr string, err error) {
	defer func() {
		metrics.BookingsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}()

	if err := req.validate(); err != nil {
		return "", err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return "", notFoundOr(err, "User not found", "load user")
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return "", notFoundOr(err, "Flight not found", "load flight")
	}

	if len(req.Passengers) != req.SeatsBooked {
		return "", domain.BusinessRule("Passengers count must be equal to seats booked")
	}

	if flight.AvailableSeats < req.SeatsBooked {
		return "", domain.SeatUnavailable("Not enough seats available")
	}

	seats, err := req.seats()
	if err != nil {
		return "", err
	}

	conflict, err := s.checker.FirstConflict(ctx, flight.ID, seats)
	if err != nil {
		return "", fmt.Errorf("check seat conflicts: %w", err)
	}
	if conflict != "" {
		return "", domain.SeatUnavailable("Seat already booked: " + conflict)
	}

	unlock, err := s.lockSeats(ctx, flight.ID, seats)
	if err != nil {
		return "", err
	}
	defer unlock()

	booking, err := s.commitWithRetry(ctx, flight, req)
	if err != nil {
		return "", err
	}

	metrics.SeatsReserved.Add(float64(booking.SeatsBooked))
	s.invalidateRoute(ctx, flight)
	s.publish(ctx, kafka.EventBookingCreated, booking, seats)

	logger.WithContext(ctx).Info("Booking created",
		"pnr", booking.PNR, "flight_id", flight.ID, "user_id", booking.UserID, "seats", seats)

	return booking.PNR, nil
}

func (s *BookingService) commitWithRetry(ctx context.Context, flight *domain.Flight, req BookingRequest) (*domain.Booking, error) {
	for attempt := 1; ; attempt++ {
		booking, err := s.commit(ctx, flight, req)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, repository.ErrAlreadyExists) {
			return nil, err
		}
		if attempt == maxPNRAttempts {
			return nil, fmt.Errorf("generate unique pnr after %d attempts: %w", attempt, err)
		}
		logger.WithContext(ctx).Warn("PNR collision, retrying", "attempt", attempt, "flight_id", flight.ID)
	}
}

func (s *BookingService) commit(ctx context.Context, flight *domain.Flight, req BookingRequest) (*domain.Booking, error) {
	booking := &domain.Booking{
		PNR:         s.newPNR(),
		UserID:      req.UserID,
		FlightID:    flight.ID,
		SeatsBooked: req.SeatsBooked,
		MealType:    req.MealType,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.bookings.Save(ctx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		ids := make([]string, 0, len(req.Passengers))
		for _, in := range req.Passengers {
			p := &domain.Passenger{
				Name:       in.Name,
				Gender:     in.Gender,
				Age:        in.Age,
				SeatNumber: in.SeatNumber,
				BookingID:  booking.ID,
				FlightID:   flight.ID,
			}
			if err := s.passengers.Save(ctx, p); err != nil {
				if errors.Is(err, repository.ErrSeatTaken) {
					return domain.SeatUnavailable("Seat already booked: " + in.SeatNumber)
				}
				return fmt.Errorf("save passenger: %w", err)
			}
			ids = append(ids, p.ID)
		}

		if _, err := s.flights.ReserveSeats(ctx, flight.ID, req.SeatsBooked); err != nil {
			switch {
			case errors.Is(err, repository.ErrInsufficientSeats):
				return domain.SeatUnavailable("Not enough seats available")
			case errors.Is(err, repository.ErrNotFound):
				return domain.NotFound("Flight not found")
			}
			return fmt.Errorf("reserve seats: %w", err)
		}

		booking.PassengerIDs = ids
		if err := s.bookings.Save(ctx, booking); err != nil {
			return fmt.Errorf("save booking passengers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// lockSeats takes a lock per seat in sorted order so two requests sharing
// seats cannot deadlock each other. When the cache is unreachable booking
// proceeds without locks and the store constraint decides.
func (s *BookingService) lockSeats(ctx context.Context, flightID string, seats []string) (func(), error) {
	noop := func() {}
	if s.cache == nil {
		return noop, nil
	}

	ordered := slices.Clone(seats)
	slices.Sort(ordered)

	held := make(map[string]string, len(ordered))
	release := func() {
		releaseCtx := context.WithoutCancel(ctx)
		for seat, token := range held {
			if err := s.cache.ReleaseSeatLock(releaseCtx, flightID, seat, token); err != nil {
				logger.WithContext(ctx).Warn("Failed to release seat lock", "flight_id", flightID, "seat", seat, "error", err)
			}
		}
	}

	for _, seat := range ordered {
		token, err := s.cache.AcquireSeatLock(ctx, flightID, seat, s.seatLockTTL)
		if err != nil {
			logger.WithContext(ctx).Warn("Seat locks unavailable, continuing without them", "flight_id", flightID, "error", err)
			release()
			return noop, nil
		}
		if token == "" {
			release()
			return noop, domain.SeatUnavailable("Seat is being booked: " + seat)
		}
		held[seat] = token
	}
	return release, nil
}

func (s *BookingService) GetTicket(ctx context.Context, pnr string) (*Ticket, error) {
	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, notFoundOr(err, "PNR not found", "load booking")
	}
	passengers, err := s.passengers.FindByBooking(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load passengers: %w", err)
	}
	return &Ticket{Booking: *booking, Passengers: passengers}, nil
}

// CancelBooking deletes the booking and its passengers and returns the seats
// to the flight, unless departure is less than the cancellation window away.
func (s *BookingService) CancelBooking(ctx context.Context, pnr string) (err error) {
	defer func() {
		metrics.CancellationsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}()

	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return notFoundOr(err, "PNR not found", "load booking")
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return notFoundOr(err, "Flight not found", "load flight")
	}

	hoursLeft := int64(flight.DepartureTime.Sub(s.clock.Now()) / time.Hour)
	if hoursLeft < int64(s.cancellationWindow) {
		return domain.BusinessRule(fmt.Sprintf("Cannot cancel within %d hours of departure", s.cancellationWindow))
	}

	var seats []string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		passengers, err := s.passengers.FindByBooking(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("load passengers: %w", err)
		}
		seats = make([]string, 0, len(passengers))
		for _, p := range passengers {
			seats = append(seats, p.SeatNumber)
		}

		// Deleting the booking first makes a concurrent second cancel fail
		// before it can release the seats again.
		if err := s.bookings.Delete(ctx, booking.ID); err != nil {
			return notFoundOr(err, "PNR not found", "delete booking")
		}
		if err := s.passengers.DeleteByBooking(ctx, booking.ID); err != nil {
			return fmt.Errorf("delete passengers: %w", err)
		}
		if _, err := s.flights.ReleaseSeats(ctx, flight.ID, booking.SeatsBooked); err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.SeatsReleased.Add(float64(booking.SeatsBooked))
	s.invalidateRoute(ctx, flight)
	s.publish(ctx, kafka.EventBookingCancelled, booking, seats)

	logger.WithContext(ctx).Info("Booking cancelled", "pnr", booking.PNR, "flight_id", flight.ID)
	return nil
}

func (s *BookingService) HistoryByUser(ctx context.Context, userID string) ([]Ticket, error) {
	bookings, err := s.bookings.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return s.tickets(ctx, bookings)
}

func (s *BookingService) HistoryByEmail(ctx context.Context, email string) ([]Ticket, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "load user")
	}
	return s.HistoryByUser(ctx, user.ID)
}

func (s *BookingService) tickets(ctx context.Context, bookings []domain.Booking) ([]Ticket, error) {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	passengers, err := s.passengers.FindByBookings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load passengers: %w", err)
	}

	byBooking := make(map[string][]domain.Passenger, len(bookings))
	for _, p := range passengers {
		byBooking[p.BookingID] = append(byBooking[p.BookingID], p)
	}

	tickets := make([]Ticket, 0, len(bookings))
	for _, b := range bookings {
		ps := byBooking[b.ID]
		if ps == nil {
			ps = []domain.Passenger{}
		}
		tickets = append(tickets, Ticket{Booking: b, Passengers: ps})
	}
	return tickets, nil
}

func (s *BookingService) invalidateRoute(ctx context.Context, flight *domain.Flight) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRoute(ctx, flight.FromCity, flight.ToCity); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate route cache", "from", flight.FromCity, "to", flight.ToCity, "error", err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType kafka.EventType, booking *domain.Booking, seats []string) {
	if s.producer == nil {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		PNR:         booking.PNR,
		BookingID:   booking.ID,
		FlightID:    booking.FlightID,
		UserID:      booking.UserID,
		SeatsBooked: booking.SeatsBooked,
		Seats:       seats,
		OccurredAt:  s.clock.Now(),
	}
	if err := s.producer.PublishBookingEvent(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("Failed to publish booking event", "type", eventType, "pnr", booking.PNR, "error", err)
	}
}

// validate checks request fields that do not need the store.
func (r BookingRequest) validate() error {
	if r.SeatsBooked < 1 {
		return domain.BusinessRule("seatsBooked must be >= 1")
	}
	if !r.MealType.Valid() {
		return domain.BusinessRule(fmt.Sprintf("Invalid meal type: %s", r.MealType))
	}
	for i, p := range r.Passengers {
		switch {
		case p.Name == "":
			return domain.BusinessRule(fmt.Sprintf("passengers[%d]: name is required", i))
		case !p.Gender.Valid():
			return domain.BusinessRule(fmt.Sprintf("passengers[%d]: invalid gender %q", i, p.Gender))
		case p.Age < domain.MinPassengerAge || p.Age > domain.MaxPassengerAge:
			return domain.BusinessRule(fmt.Sprintf("passengers[%d]: age must be between %d and %d", i, domain.MinPassengerAge, domain.MaxPassengerAge))
		case !domain.ValidSeatNumber(p.SeatNumber):
			return domain.BusinessRule(fmt.Sprintf("passengers[%d]: invalid seat format %q", i, p.SeatNumber))
		}
	}
	return nil
}

type passengerKey struct {
	name   string
	age    int
	gender domain.Gender
}

// seats rejects duplicate passengers, keyed by name, age and gender, and seat
// numbers repeated within the request. It returns the seats in request order.
func (r BookingRequest) seats() ([]string, error) {
	people := make(map[passengerKey]struct{}, len(r.Passengers))
	for _, p := range r.Passengers {
		key := passengerKey{name: p.Name, age: p.Age, gender: p.Gender}
		if _, dup := people[key]; dup {
			return nil, domain.BusinessRule("Duplicate passenger: " + p.Name)
		}
		people[key] = struct{}{}
	}

	seats := make([]string, 0, len(r.Passengers))
	seen := make(map[string]struct{}, len(r.Passengers))
	for _, p := range r.Passengers {
		if _, dup := seen[p.SeatNumber]; dup {
			return nil, domain.BusinessRule("Seat requested more than once: " + p.SeatNumber)
		}
		seen[p.SeatNumber] = struct{}{}
		seats = append(seats, p.SeatNumber)
	}
	return seats, nil
}

// notFoundOr turns a missing record into a NotFound with msg and wraps any
// other store failure with op.
func notFoundOr(err error, msg, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ BookingUseCase = (*BookingService)(nil)
